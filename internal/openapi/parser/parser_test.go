package parser

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"

	pkgopenapi "github.com/goliatone/go-churnform/pkg/openapi"
)

const predictDoc = `
openapi: 3.0.3
info:
  title: test
  version: 0.0.1
paths:
  /api/predict:
    post:
      operationId: predictChurn
      summary: Predict
      requestBody:
        content:
          application/json:
            schema:
              $ref: "#/components/schemas/Customer"
      responses:
        "200":
          description: ok
          content:
            application/json:
              schema:
                type: object
                required: [churn_prediction]
                properties:
                  churn_prediction:
                    type: integer
                    enum: [0, 1]
components:
  schemas:
    Customer:
      type: object
      required: [tenure, Contract]
      properties:
        tenure:
          type: integer
          title: Tenure (months)
          minimum: 0
          default: 24
          x-order: 1
        Contract:
          type: string
          enum: [Month-to-month, One year, Two year]
          default: Month-to-month
          x-order: 2
`

func TestOperations_ExtractsPredictOperation(t *testing.T) {
	doc := pkgopenapi.MustNewDocument(pkgopenapi.SourceFromFile("predict.yaml"), []byte(predictDoc))

	ops, err := New(pkgopenapi.NewParserOptions()).Operations(context.Background(), doc)
	if err != nil {
		t.Fatalf("operations: %v", err)
	}

	op, ok := ops["predictChurn"]
	if !ok {
		t.Fatalf("predictChurn not extracted, got %v", ops)
	}
	if op.Method != "POST" || op.Path != "/api/predict" {
		t.Fatalf("unexpected method/path: %s %s", op.Method, op.Path)
	}

	body := op.RequestBody
	if diff := cmp.Diff([]string{"tenure", "Contract"}, body.Required); diff != "" {
		t.Fatalf("required mismatch (-want +got):\n%s", diff)
	}

	tenure := body.Properties["tenure"]
	if tenure.Type != "integer" || tenure.Title != "Tenure (months)" {
		t.Fatalf("unexpected tenure schema: %+v", tenure)
	}
	if tenure.Minimum == nil || *tenure.Minimum != 0 {
		t.Fatalf("expected minimum 0, got %v", tenure.Minimum)
	}
	if got, ok := tenure.Extensions["x-order"]; !ok || got == nil {
		t.Fatalf("expected x-order extension, got %v", tenure.Extensions)
	}

	contract := body.Properties["Contract"]
	if diff := cmp.Diff([]any{"Month-to-month", "One year", "Two year"}, contract.Enum); diff != "" {
		t.Fatalf("enum mismatch (-want +got):\n%s", diff)
	}

	success, ok := op.SuccessResponse()
	if !ok {
		t.Fatalf("expected success response schema")
	}
	if _, ok := success.Properties["churn_prediction"]; !ok {
		t.Fatalf("expected churn_prediction in response schema")
	}
}

func TestOperations_RejectsEmptyPaths(t *testing.T) {
	raw := "openapi: 3.0.3\ninfo:\n  title: t\n  version: 1.0.0\npaths: {}\n"
	doc := pkgopenapi.MustNewDocument(pkgopenapi.SourceFromFile("empty.yaml"), []byte(raw))

	if _, err := New(pkgopenapi.NewParserOptions()).Operations(context.Background(), doc); err == nil {
		t.Fatalf("expected error for document without paths")
	}
}

func TestOperations_HonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	doc := pkgopenapi.MustNewDocument(pkgopenapi.SourceFromFile("predict.yaml"), []byte(predictDoc))
	if _, err := New(pkgopenapi.NewParserOptions()).Operations(ctx, doc); err == nil {
		t.Fatalf("expected context error")
	}
}
