/*
Package flowform is a form response engine: it walks respondents through a
block graph with conditional routing, and drives AI-generated follow-up
conversations inside dynamic blocks.

It separates the form definition (Blocks and Connections) from the respondent
state (ResponseState) and side-effects (question generation, persistence).
This Hexagonal Architecture allows FlowForm to be embedded in any interface:
CLI, HTTP server, or MCP agent infrastructure.

# Concept

A form is a graph of blocks. Static blocks collect one answer each; dynamic
blocks open a short interview where follow-up questions come from a
QuestionGenerator (typically LLM-backed), bounded by a hard question cap.
Connections between blocks carry rules whose conditions are evaluated against
the answers collected so far; when no rule matches, routing falls back to the
connection's default target, then to document order.

# Key Properties

  - Deterministic Routing: rules are evaluated in stored order, conditions
    strictly left to right. Same answers, same path.
  - Graceful Degradation: malformed conditions, dangling targets, and
    generation failures never surface errors to respondents.
  - State Persistence: respondent state lives behind a store port and is
    re-read on every submission, so the engine itself stays stateless.
  - Idempotent Submissions: retrying an identical answer replays the cached
    follow-up instead of generating (and paying for) a new one.

# Usage

Initialize the engine with a form provider. The in-memory adapters are enough
for tests and single-process use; wire Redis and an OpenAI-compatible
endpoint for production.

	package main

	import (
		"context"
		"log"

		flowform "github.com/flowform/engine"
		"github.com/flowform/engine/pkg/adapters/memory"
		"github.com/flowform/engine/pkg/domain"
	)

	func main() {
		forms := memory.NewFormProvider()
		forms.AddForm("survey", []domain.Block{
			{ID: "name", Type: domain.BlockStatic, Subtype: domain.SubtypeShortText, OrderIndex: 0, Title: "What is your name?"},
			{ID: "why", Type: domain.BlockDynamic, OrderIndex: 1, Title: "Why are you here?"},
		}, nil)

		eng, err := flowform.New(forms)
		if err != nil {
			log.Fatal(err)
		}

		ctx := context.Background()
		state, first, err := eng.Start(ctx, "survey", "resp-1")
		if err != nil {
			log.Fatal(err)
		}
		log.Println("state", state.ID, "first block", first.Title)

		// Main loop: show the block, collect an answer, submit.
		res, err := eng.Submit(ctx, domain.SubmitRequest{
			ResponseID: "resp-1",
			BlockID:    first.ID,
			Answer:     "Ada",
		})
		if err != nil {
			log.Fatal(err)
		}
		if res.Completed {
			log.Println("form complete")
		}
	}
*/
package flowform
