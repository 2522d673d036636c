package domain

import "testing"

func TestElideComments(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "line comment",
			in:   "int a; // trailing\nint b;\n",
			want: "int a; \nint b;\n",
		},
		{
			name: "block comment spanning lines",
			in:   "int a; /* one\ntwo */ int b;",
			want: "int a;  int b;",
		},
		{
			name: "comment marker inside string",
			in:   `const char *s = "/* not a comment */"; // gone`,
			want: `const char *s = "/* not a comment */"; `,
		},
		{
			name: "escaped quote inside string",
			in:   `puts("say \"hi\" // still text");`,
			want: `puts("say \"hi\" // still text");`,
		},
		{
			name: "char literals",
			in:   `char q = '"'; char c = '\''; /* x */`,
			want: `char q = '"'; char c = '\''; `,
		},
		{
			name: "annotation survives",
			in:   `void test_a__b(void) /* [clar]: runs=2 */ /* other */`,
			want: `void test_a__b(void) /* [clar]: runs=2 */ `,
		},
		{
			name: "annotation with leading space",
			in:   `/*   [clar]: description="x" */`,
			want: `/*   [clar]: description="x" */`,
		},
		{
			name: "tag not at comment start",
			in:   `/* see [clar]: docs */`,
			want: ``,
		},
		{
			name: "commented out test",
			in:   "// void test_a__b(void) {\nvoid test_a__c(void) {",
			want: "\nvoid test_a__c(void) {",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ElideComments(tt.in); got != tt.want {
				t.Errorf("ElideComments(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
