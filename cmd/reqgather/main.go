package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/Nyukimin/reqgather/internal/adapter/config"
	"github.com/Nyukimin/reqgather/internal/adapter/console"
	"github.com/Nyukimin/reqgather/internal/application/orchestrator"
	"github.com/Nyukimin/reqgather/internal/domain/agent"
	"github.com/Nyukimin/reqgather/internal/domain/interview"
	"github.com/Nyukimin/reqgather/internal/domain/llm"
	"github.com/Nyukimin/reqgather/internal/infrastructure/kb"
	"github.com/Nyukimin/reqgather/internal/infrastructure/llm/claude"
	"github.com/Nyukimin/reqgather/internal/infrastructure/llm/ollama"
	"github.com/Nyukimin/reqgather/internal/infrastructure/llm/openai"
	"github.com/Nyukimin/reqgather/internal/infrastructure/persistence/store"
)

const usage = `Usage: reqgather [options]

AI-assisted requirements gathering interview.

Options:
  -d, --demo           Run with the sample demo project
  -k, --kb [KB_ID]     Enable knowledge base augmentation, optionally
                       overriding the configured knowledge base ID
  -h, --help           Show this help and exit
`

const demoProjectName = "Task Management App Demo"

// cliOptions are the parsed command line arguments.
type cliOptions struct {
	demo  bool
	useKB bool
	kbID  string
	help  bool
}

// parseArgs handles the small argument surface by hand: --kb may or may not
// consume a following knowledge base ID.
func parseArgs(args []string) (cliOptions, error) {
	var opts cliOptions
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "-d", "--demo":
			opts.demo = true
		case "-k", "--kb":
			opts.useKB = true
			if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
				opts.kbID = args[i+1]
				i++
			}
		case "-h", "--help":
			opts.help = true
		default:
			return opts, fmt.Errorf("unknown argument: %s", args[i])
		}
	}
	return opts, nil
}

func main() {
	opts, err := parseArgs(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\nRun 'reqgather --help' for usage.\n", err)
		os.Exit(2)
	}
	if opts.help {
		fmt.Print(usage)
		return
	}

	// .env is a development convenience; absence is not an error.
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded environment from .env")
	}

	cfg, err := config.LoadConfig(os.Getenv("REQGATHER_CONFIG"))
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	result, err := run(ctx, cfg, opts)
	if err != nil {
		log.Fatalf("Failed to start interview: %v", err)
	}

	console.NewRenderer(os.Stdout).Summary(result)
	if result.Err != nil {
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, opts cliOptions) (result interview.RunResult, err error) {
	provider, err := buildProvider(cfg)
	if err != nil {
		return result, err
	}
	log.Printf("Using LLM provider: %s", provider.Name())

	checkpoint, err := console.NewCheckpoint()
	if err != nil {
		return result, err
	}
	defer checkpoint.Close()

	renderer := console.NewRenderer(os.Stdout)

	var retriever orchestrator.Retriever
	if opts.useKB {
		kbID := cfg.AWS.KnowledgeBaseID
		if opts.kbID != "" {
			kbID = opts.kbID
		}
		client, err := kb.NewClient(ctx, cfg.AWS.Region, kbID)
		if err != nil {
			// KB is an enhancement; the interview still works without it.
			log.Printf("Knowledge base unavailable, continuing without it: %v", err)
		} else {
			retriever = client
			log.Printf("Knowledge base enabled: %s (%s)", kbID, cfg.AWS.Region)
		}
	}

	var runStore orchestrator.RunStore
	if s, err := store.Open(cfg.Store.Path); err != nil {
		log.Printf("Run store unavailable, continuing without it: %v", err)
	} else {
		defer s.Close()
		runStore = s
	}

	projectName := ""
	if opts.demo {
		renderer.DemoBanner()
		projectName = demoProjectName
	}
	renderer.Welcome(retriever != nil)

	orch := orchestrator.New(orchestrator.Deps{
		Checkpoint: checkpoint,
		Evaluator:  agent.NewEvaluator(provider),
		Validator:  agent.NewValidator(provider),
		Generator:  agent.NewGenerator(provider),
		Classifier: agent.NewClassifier(provider),
		Presenter:  renderer,
		Retriever:  retriever,
		Store:      runStore,
	})

	return orch.Run(ctx, projectName), nil
}

func buildProvider(cfg *config.Config) (llm.LLMProvider, error) {
	switch cfg.Provider.Name {
	case "claude":
		return claude.NewClaudeProvider(cfg.Claude.APIKey, cfg.Claude.Model), nil
	case "openai":
		return openai.NewOpenAIProvider(cfg.OpenAI.APIKey, cfg.OpenAI.Model), nil
	case "ollama":
		return ollama.NewOllamaProvider(cfg.Ollama.BaseURL, cfg.Ollama.Model), nil
	default:
		return nil, fmt.Errorf("unknown provider %q", cfg.Provider.Name)
	}
}
