package netguard

import "testing"

func TestIsAllowedHostDeniesNilAllowlist(t *testing.T) {
	if IsAllowedHost(nil, "example.com") {
		t.Fatal("expected nil allowlist to deny")
	}
}

func TestIsAllowedHostDeniesEmptyAllowlist(t *testing.T) {
	if IsAllowedHost([]string{}, "example.com") {
		t.Fatal("expected empty allowlist to deny")
	}
}

func TestIsAllowedHostExactMatch(t *testing.T) {
	if !IsAllowedHost([]string{"example.com"}, "example.com") {
		t.Fatal("expected exact match to be allowed")
	}
}

func TestIsAllowedHostCaseInsensitive(t *testing.T) {
	if !IsAllowedHost([]string{"Example.COM"}, "example.com") {
		t.Fatal("expected case-insensitive match to be allowed")
	}
}

func TestIsAllowedHostNoSubdomainInheritance(t *testing.T) {
	if IsAllowedHost([]string{"example.com"}, "sub.example.com") {
		t.Fatal("expected subdomain to be denied without explicit listing")
	}
}

func TestIsAllowedHostNoWildcards(t *testing.T) {
	if IsAllowedHost([]string{"*.example.com"}, "foo.example.com") {
		t.Fatal("expected wildcard entries to not be treated as patterns")
	}
}
