// Package formrig provides reactive form validation: text fields governed by
// ordered rules, with pristine-error suppression, debounced re-validation,
// pluggable error strategies and form-level aggregation.
//
// Quick Start:
//
//	form, err := formrig.NewForm([]formrig.FieldSpec{
//	    {Label: "Email", Configuration: formrig.EmailConfiguration(), ErrorStrategy: formrig.HighestPriority()},
//	    {Label: "Full Name", Configuration: formrig.NonEmptyConfiguration(), Debounce: 500 * time.Millisecond, ShowRequirement: true},
//	})
//	email, _ := form.Field("Email")
//	email.SetValue("not-an-email")
//	_ = form.Sync(ctx)
//	fmt.Print(form.Errors()) // Email: Must be valid.
//
// Fields stay pristine until their value is non-empty once: rules are
// evaluated but no error is displayed. All state transitions of a form run
// on one Scheduler; readers always see the result of a completed pass.
//
// Forms can also be declared with struct tags and filled from sources:
//
//	type Signup struct {
//	    Email    string `form:"config:email,strategy:highest-priority"`
//	    FullName string `form:"config:non-empty,debounce:500ms,requirement"`
//	}
//	specs, err := formrig.Declare(&Signup{})
//	form, err := formrig.NewLoader(specs...).
//	    WithSource(formenv.New(formenv.Options{Prefix: "SIGNUP_"})).
//	    Load(ctx)
//
// Tag directives: label:text, config:name, strategy:append|highest-priority|override:msg,
// debounce:duration, type:text|picker|date-picker, picker:kind, options:a,b,c, requirement
//
// See example_test.go for detailed usage.
package formrig
