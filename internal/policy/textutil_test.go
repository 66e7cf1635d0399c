package policy

import "testing"

func TestStripMarkup(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"plain text", "plain text"},
		{"<b>bold</b> text", "bold text"},
		{"a <span class=x>styled</span> word", "a styled word"},
		{"two <i>tags</i> on <u>one</u> line", "two tags on one line"},
		{"<br/>", ""},
	}
	for _, tt := range tests {
		if got := StripMarkup(tt.in); got != tt.want {
			t.Errorf("StripMarkup(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Introduction", "introduction"},
		{"  Key Management  ", "key-management"},
		{"Certificate Policy (CP)", "certificate-policy-cp"},
		{"Roles, Responsibilities", "roles-responsibilities"},
		{"Subscriber/Sponsor", "subscribersponsor"},
		{"Policy: Overview", "policy-overview"},
		{"Relying Party’s Duty", "relying-partys-duty"},
	}
	for _, tt := range tests {
		if got := Slugify(tt.in); got != tt.want {
			t.Errorf("Slugify(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSlugify_Idempotent(t *testing.T) {
	inputs := []string{"Certificate Policy (CP)", "already-slug", "Roles, Responsibilities"}
	for _, in := range inputs {
		once := Slugify(in)
		if twice := Slugify(once); twice != once {
			t.Errorf("Slugify not idempotent on %q: %q != %q", in, twice, once)
		}
	}
}
