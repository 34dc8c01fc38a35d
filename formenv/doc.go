// Package formenv pre-populates form fields from environment variables.
//
// Variable names are matched to field labels after normalization, so with
// Prefix "FORM_" the variable FORM_FULL_NAME fills the "Full Name" field.
//
// Example:
//
//	source := formenv.New(formenv.Options{Prefix: "FORM_"})
//	form, err := formrig.NewLoader(specs...).WithSource(source).Strict(false).Load(ctx)
package formenv
