package domain

import "testing"

func TestParams_EncodeKeepsOrderAndDuplicates(t *testing.T) {
	p := P("id", "1", "id", "2")
	if got := p.Encode(); got != "id=1&id=2" {
		t.Fatalf("expected id=1&id=2, got %q", got)
	}
}

func TestParams_EncodeEscapes(t *testing.T) {
	p := Params{}.Add("name", "Eastside Loop").Add("q", "a&b=c")
	if got := p.Encode(); got != "name=Eastside+Loop&q=a%26b%3Dc" {
		t.Fatalf("unexpected encoding %q", got)
	}
}

func TestParams_GetReturnsFirst(t *testing.T) {
	p := P("id", "1", "id", "2")
	v, ok := p.Get("id")
	if !ok || v != "1" {
		t.Fatalf("expected first value 1, got %q ok=%v", v, ok)
	}
	if _, ok := p.Get("missing"); ok {
		t.Fatalf("expected missing key")
	}
}

func TestP_OddArgsDropLast(t *testing.T) {
	if got := len(P("a", "1", "b")); got != 1 {
		t.Fatalf("expected 1 pair, got %d", got)
	}
}

func TestRequestSpec_Validate(t *testing.T) {
	base := RequestSpec{Action: "rides/8384559", Version: V1, Operation: FetchText}

	cases := []struct {
		name  string
		mut   func(s *RequestSpec)
		field string
	}{
		{"empty action", func(s *RequestSpec) { s.Action = "" }, "action"},
		{"blank action", func(s *RequestSpec) { s.Action = "  " }, "action"},
		{"bad operation", func(s *RequestSpec) { s.Operation = 0 }, "operation"},
		{"bad version", func(s *RequestSpec) { s.Version = 0 }, "version"},
		{"send without body", func(s *RequestSpec) { s.Operation = SendText }, "body"},
		{"send with form", func(s *RequestSpec) {
			s.Operation = SendBytes
			s.Body = []byte("{}")
			s.Form = P("a", "b")
		}, "form"},
		{"fetch with body", func(s *RequestSpec) { s.Body = []byte("{}") }, "body"},
		{"missing token", func(s *RequestSpec) { s.Required = []string{"token"} }, "token"},
		{"empty token", func(s *RequestSpec) {
			s.Required = []string{"token"}
			s.Query = P("token", "")
		}, "token"},
	}

	for _, tc := range cases {
		s := base
		tc.mut(&s)
		err := s.Validate()
		if !IsInvalidArgument(err) {
			t.Fatalf("%s: expected InvalidArgument, got %v", tc.name, err)
		}
		if got := err.(*Error).Field; got != tc.field {
			t.Fatalf("%s: expected field %q, got %q", tc.name, tc.field, got)
		}
	}
}

func TestRequestSpec_ValidateAcceptsRequiredFromQueryOrForm(t *testing.T) {
	q := RequestSpec{Action: "athletes/476912", Version: V2, Operation: FetchText,
		Query: P("token", "abc"), Required: []string{"token"}}
	if err := q.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	f := RequestSpec{Action: "authentication/login", Version: V2, Operation: FetchText, Secure: true,
		Form: P("email", "a@b.c", "password", "x"), Required: []string{"email", "password"}}
	if err := f.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	s := RequestSpec{Action: "athletes/476912", Version: V2, Operation: SendText, Body: []byte{}}
	if err := s.Validate(); err != nil {
		t.Fatalf("expected empty non-nil body to be accepted, got %v", err)
	}
}
