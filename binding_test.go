package formrig

import (
	"errors"
	"reflect"
	"testing"
	"time"
)

func TestBinding_ParseTag(t *testing.T) {
	tests := []struct {
		name     string
		tag      string
		expected tagConfig
	}{
		{
			name:     "empty tag",
			tag:      "",
			expected: tagConfig{},
		},
		{
			name:     "skip",
			tag:      "-",
			expected: tagConfig{skip: true},
		},
		{
			name:     "label with spaces",
			tag:      "label:Full Name",
			expected: tagConfig{label: "Full Name"},
		},
		{
			name:     "config directive",
			tag:      "config:email",
			expected: tagConfig{config: "email"},
		},
		{
			name: "all simple directives",
			tag:  "label:Birthday,config:date,debounce:250ms,type:date-picker,requirement",
			expected: tagConfig{
				label:       "Birthday",
				config:      "date",
				debounce:    "250ms",
				typ:         "date-picker",
				requirement: true,
			},
		},
		{
			name:     "requirement explicit true",
			tag:      "requirement:true",
			expected: tagConfig{requirement: true},
		},
		{
			name:     "requirement explicit false",
			tag:      "requirement:false",
			expected: tagConfig{},
		},
		{
			name:     "highest priority strategy",
			tag:      "config:email,strategy:highest-priority",
			expected: tagConfig{config: "email", strategy: "highest-priority"},
		},
		{
			name:     "override message with comma and colon",
			tag:      "strategy:override:Sorry, try again: later,config:email",
			expected: tagConfig{strategy: "override:Sorry, try again: later", config: "email"},
		},
		{
			name: "options list",
			tag:  "type:picker,picker:searchable,options:Canada, Mexico,United States,config:optional",
			expected: tagConfig{
				typ:     "picker",
				picker:  "searchable",
				options: []string{"Canada", "Mexico", "United States"},
				config:  "optional",
			},
		},
		{
			name:     "whitespace after commas",
			tag:      "config:email, strategy:append, requirement",
			expected: tagConfig{config: "email", strategy: "append", requirement: true},
		},
		{
			name:     "unknown directive ignored",
			tag:      "config:email,color:blue",
			expected: tagConfig{config: "email"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := parseTag(tt.tag)
			if !reflect.DeepEqual(result, tt.expected) {
				t.Errorf("parseTag(%q) = %+v, want %+v", tt.tag, result, tt.expected)
			}
		})
	}
}

func TestBinding_SplitDirectives(t *testing.T) {
	tests := []struct {
		name     string
		tag      string
		expected []string
	}{
		{
			name:     "single directive",
			tag:      "config:email",
			expected: []string{"config:email"},
		},
		{
			name:     "multiple simple directives",
			tag:      "config:email,requirement",
			expected: []string{"config:email", "requirement"},
		},
		{
			name:     "options at the end",
			tag:      "config:optional,options:a,b,c",
			expected: []string{"config:optional", "options:a,b,c"},
		},
		{
			name:     "options in the middle",
			tag:      "requirement,options:a,b,c,config:optional",
			expected: []string{"requirement", "options:a,b,c", "config:optional"},
		},
		{
			name:     "options followed by strategy",
			tag:      "options:a,b,strategy:override:x, y",
			expected: []string{"options:a,b", "strategy:override:x, y"},
		},
		{
			name:     "consecutive commas outside greedy directives",
			tag:      "config:email,,requirement",
			expected: []string{"config:email", "", "requirement"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := splitDirectives(tt.tag)
			if !reflect.DeepEqual(result, tt.expected) {
				t.Errorf("splitDirectives(%q) = %q, want %q", tt.tag, result, tt.expected)
			}
		})
	}
}

func TestBinding_StartsWithDirective(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{"", false},
		{"label:Email", true},
		{"config:email", true},
		{"strategy:append", true},
		{"debounce:1s", true},
		{"type:picker", true},
		{"picker:complete", true},
		{"options:a", true},
		{"requirement", true},
		{"  config:email", true},
		{"United States", false},
		{" try again", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := startsWithDirective(tt.input); got != tt.expected {
				t.Errorf("startsWithDirective(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

type signup struct {
	Username string `form:"config:non-empty"`
	Email    string `form:"config:email,strategy:highest-priority"`
	FullName string `form:"config:non-empty,debounce:500ms,requirement"`
	Country  string `form:"label:Country of Residence,config:optional,type:picker,picker:searchable,options:Canada,United States"`
	Notes    string `form:"-"`
	Internal string
	ignored  string `form:"config:email"` //nolint:unused // unexported fields are skipped
}

func TestDeclare(t *testing.T) {
	s := signup{Username: "jdoe"}

	specs, err := Declare(&s)
	if err != nil {
		t.Fatalf("Declare() error = %v", err)
	}
	if len(specs) != 4 {
		t.Fatalf("Declare() returned %d specs, want 4", len(specs))
	}

	tests := []struct {
		label    string
		value    string
		config   string
		strategy string
		debounce time.Duration
		require  bool
		typ      FieldType
	}{
		{"Username", "jdoe", "non-empty", "append", 0, false, FieldText},
		{"Email", "", "email", "highest-priority", 0, false, FieldText},
		{"Full Name", "", "non-empty", "append", 500 * time.Millisecond, true, FieldText},
		{"Country of Residence", "", "optional", "append", 0, false, FieldPicker},
	}
	for i, tt := range tests {
		spec := specs[i]
		if spec.Label != tt.label {
			t.Errorf("specs[%d].Label = %q, want %q", i, spec.Label, tt.label)
		}
		if spec.Value != tt.value {
			t.Errorf("specs[%d].Value = %q, want %q", i, spec.Value, tt.value)
		}
		if spec.Configuration.Name() != tt.config {
			t.Errorf("specs[%d].Configuration = %q, want %q", i, spec.Configuration.Name(), tt.config)
		}
		if spec.ErrorStrategy.String() != tt.strategy {
			t.Errorf("specs[%d].ErrorStrategy = %q, want %q", i, spec.ErrorStrategy, tt.strategy)
		}
		if spec.Debounce != tt.debounce {
			t.Errorf("specs[%d].Debounce = %v, want %v", i, spec.Debounce, tt.debounce)
		}
		if spec.ShowRequirement != tt.require {
			t.Errorf("specs[%d].ShowRequirement = %v, want %v", i, spec.ShowRequirement, tt.require)
		}
		if spec.Type != tt.typ {
			t.Errorf("specs[%d].Type = %v, want %v", i, spec.Type, tt.typ)
		}
	}

	if got := specs[3].Options; !reflect.DeepEqual(got, []string{"Canada", "United States"}) {
		t.Errorf("Country options = %q", got)
	}
	if !specs[3].Picker.AllowsListSearch() {
		t.Errorf("Country picker = %v, want searchable", specs[3].Picker)
	}
}

func TestDeclare_Errors(t *testing.T) {
	type broken struct {
		Age      int    `form:"config:non-empty"`
		Email    string `form:"config:mail"`
		Name     string `form:"config:non-empty,debounce:fast"`
		Strategy string `form:"config:email,strategy:loudest"`
	}

	_, err := Declare(&broken{})

	var valErr *ValidationError
	if !errors.As(err, &valErr) {
		t.Fatalf("Declare() error = %v, want *ValidationError", err)
	}

	want := []struct{ path, code string }{
		{"Age", ErrCodeInvalidType},
		{"Email.configuration", ErrCodeUnknownConfiguration},
		{"Name.debounce", ErrCodeInvalidType},
		{"Strategy.strategy", ErrCodeUnknownStrategy},
	}
	if len(valErr.FieldErrors) != len(want) {
		t.Fatalf("got %d field errors, want %d: %v", len(valErr.FieldErrors), len(want), valErr)
	}
	for i, w := range want {
		fe := valErr.FieldErrors[i]
		if fe.FieldPath != w.path || fe.Code != w.code {
			t.Errorf("FieldErrors[%d] = %s/%s, want %s/%s", i, fe.FieldPath, fe.Code, w.path, w.code)
		}
	}
	if !errors.Is(err, ErrUnknownConfiguration) || !errors.Is(err, ErrUnknownStrategy) {
		t.Errorf("errors.Is should reach the sentinels: %v", err)
	}
}

func TestDeclare_DuplicateLabels(t *testing.T) {
	type twice struct {
		A string `form:"label:Email,config:email"`
		B string `form:"label:Email,config:optional"`
	}

	_, err := Declare(&twice{})
	if !errors.Is(err, ErrDuplicateField) {
		t.Fatalf("Declare() error = %v, want ErrDuplicateField", err)
	}
}

func TestDeclare_NilTarget(t *testing.T) {
	var s *signup
	if _, err := Declare(s); !errors.Is(err, ErrNilTarget) {
		t.Errorf("Declare(nil) error = %v, want ErrNilTarget", err)
	}
}
