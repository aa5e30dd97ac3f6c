/*
Package dsl provides a Go DSL (Domain Specific Language) for programmatically constructing FlowForm forms.

It allows developers to define block graphs using a type-safe, fluent builder pattern
instead of relying on external YAML files. This is particularly useful for dynamic form
generation, unit testing, and leveraging IDE autocompletion/type-checking.

Example usage:

	forms, err := dsl.New("onboarding").
		Static("name").Title("What is your name?").
		Done().
		Static("role").Title("What best describes your role?").
		Branch("eng_deep_dive").When("role", domain.OpEquals, "engineer").End().
		Go("wrap_up").
		Done().
		Dynamic("eng_deep_dive").Starter("Tell me about your stack.").MaxQuestions(3).
		Done().
		Static("wrap_up").Title("Anything else?").
		Done().
		Build()

The resulting provider plugs straight into flowform.New.
*/
package dsl
