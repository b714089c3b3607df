package weburl

import "testing"

func TestParseAndNormalize(t *testing.T) {
	tests := []struct {
		tag    string
		input  string
		expect string
	}{
		{"UpCase", "HTTP://A.com/page1.com", "http://a.com/page1.com"},
		{"Fragment", "http://a.com/page1.com#Fragment", "http://a.com/page1.com"},
		{"EmbeddedPort", "http://a.com:8080/page1.com", "http://a.com:8080/page1.com"},
	}

	for _, tst := range tests {
		u, err := ParseAndNormalize(tst.input)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tst.tag, err)
		}
		if got := u.String(); got != tst.expect {
			t.Errorf("%s: got %q, expected %q", tst.tag, got, tst.expect)
		}
	}
}

func TestRegisteredDomainAndSubdomain(t *testing.T) {
	u, err := Parse("http://www.bbc.co.uk/news")
	if err != nil {
		t.Fatal(err)
	}
	dom, err := u.RegisteredDomain()
	if err != nil {
		t.Fatal(err)
	}
	if dom != "bbc.co.uk" {
		t.Errorf("got registered domain %q, expected bbc.co.uk", dom)
	}
	sub, err := u.Subdomain()
	if err != nil {
		t.Fatal(err)
	}
	if sub != "www" {
		t.Errorf("got subdomain %q, expected www", sub)
	}
}

func TestBaseURL(t *testing.T) {
	u, err := Parse("http://a.example/p1?x=1")
	if err != nil {
		t.Fatal(err)
	}
	if got := u.BaseURL(); got != "http://a.example" {
		t.Errorf("got %q, expected http://a.example", got)
	}
}

func TestSameRegisteredDomain(t *testing.T) {
	a, _ := Parse("http://www.a.example/x")
	b, _ := Parse("http://blog.a.example/y")
	if !SameRegisteredDomain(a, b) {
		t.Error("expected same registered domain for two a.example subdomains")
	}
	c, _ := Parse("http://b.example/z")
	if SameRegisteredDomain(a, c) {
		t.Error("expected different registered domains for a.example and b.example")
	}
}

func TestPartitionKey(t *testing.T) {
	cases := map[string]string{
		"http://a.example": "h",
		"Foo":               "f",
		"123abc":            "default",
		"":                  "default",
	}
	for in, want := range cases {
		if got := PartitionKey(in); got != want {
			t.Errorf("PartitionKey(%q) = %q, want %q", in, got, want)
		}
	}
}
