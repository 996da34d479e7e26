package kb

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockagentruntime"
	"github.com/aws/aws-sdk-go-v2/service/bedrockagentruntime/types"
)

// NoResultsMessage is returned verbatim when the knowledge base has nothing
// for a query.
const NoResultsMessage = "No information found in the knowledge base for this query."

const numResults = 3

// retrieveAPI is the slice of the Bedrock agent runtime client we use.
// Narrowed to an interface so tests can stand in a fake.
type retrieveAPI interface {
	Retrieve(ctx context.Context, params *bedrockagentruntime.RetrieveInput, optFns ...func(*bedrockagentruntime.Options)) (*bedrockagentruntime.RetrieveOutput, error)
}

// Client queries an Amazon Bedrock Knowledge Base and renders the results
// as plain text for prompt augmentation. Every failure degrades to an
// error string; Retrieve never returns an error to the caller.
type Client struct {
	api  retrieveAPI
	kbID string
}

// NewClient creates a Client for the given region and knowledge base ID,
// using the default AWS credential chain.
func NewClient(ctx context.Context, region, kbID string) (*Client, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &Client{
		api:  bedrockagentruntime.NewFromConfig(cfg),
		kbID: kbID,
	}, nil
}

// NewClientWithAPI creates a Client with an injected API implementation.
func NewClientWithAPI(api retrieveAPI, kbID string) *Client {
	return &Client{api: api, kbID: kbID}
}

// Retrieve runs a hybrid vector search and formats the hits as numbered
// "Source N (label)" blocks. Empty hit lists yield NoResultsMessage; a
// service error yields a string containing "Error querying knowledge base".
func (c *Client) Retrieve(ctx context.Context, query string) string {
	out, err := c.api.Retrieve(ctx, &bedrockagentruntime.RetrieveInput{
		KnowledgeBaseId: aws.String(c.kbID),
		RetrievalQuery: &types.KnowledgeBaseQuery{
			Text: aws.String(query),
		},
		RetrievalConfiguration: &types.KnowledgeBaseRetrievalConfiguration{
			VectorSearchConfiguration: &types.KnowledgeBaseVectorSearchConfiguration{
				NumberOfResults:    aws.Int32(numResults),
				OverrideSearchType: types.SearchTypeHybrid,
			},
		},
	})
	if err != nil {
		msg := fmt.Sprintf("Error querying knowledge base: %v", err)
		log.Printf("kb: %s", msg)
		return msg
	}

	if len(out.RetrievalResults) == 0 {
		return NoResultsMessage
	}

	var formatted []string
	for i, result := range out.RetrievalResults {
		content := "No content"
		if result.Content != nil && result.Content.Text != nil {
			content = *result.Content.Text
		}
		formatted = append(formatted, fmt.Sprintf("Source %d (%s):\n%s\n", i+1, sourceLabel(result), content))
	}

	log.Printf("kb: found %d relevant results", len(out.RetrievalResults))
	return strings.Join(formatted, "\n")
}

// sourceLabel extracts a human-readable source for a retrieval hit.
func sourceLabel(result types.KnowledgeBaseRetrievalResult) string {
	if result.Location != nil {
		if s3 := result.Location.S3Location; s3 != nil && s3.Uri != nil {
			return *s3.Uri
		}
		if web := result.Location.WebLocation; web != nil && web.Url != nil {
			return *web.Url
		}
	}
	return "Unknown source"
}
