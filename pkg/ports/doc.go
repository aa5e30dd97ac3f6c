/*
Package ports defines the driven ports (interfaces) for the FlowForm engine.

These interfaces decouple the core logic from external implementations, allowing
the engine to work with various storage backends, form sources, and question
generators.

# Key Interfaces

  - FormProvider: Responsible for loading the block graph (Blocks and Connections).
  - ResponseStore: Responsible for persisting and loading respondent state.
  - QuestionGenerator: Produces follow-up questions for dynamic blocks (LLM-backed).
  - DistributedLocker: Provides distributed locking for concurrent response access.
*/
package ports
