/*
Package domain contains the core domain models for the FlowForm engine.

It defines the entities of the form graph and of a respondent's progress
through it. This package is kept pure and free of external dependencies
like I/O or persistence, following Hexagonal Architecture principles.

# Key Entities

  - Block: One form question/step, static or dynamic (AI-driven conversation).
  - Connection: A directed edge from a block to its possible next blocks, governed by Rules.
  - Rule / Condition: Conditional branching tests evaluated against prior answers.
  - Conversation: The ordered QA history for one respondent within one dynamic block.
  - ResponseState: The runtime snapshot of one respondent's session.
*/
package domain
