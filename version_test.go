package barkml

import "testing"

func TestParseVersion(t *testing.T) {
	v, err := ParseVersion("1.2.3-beta+build")
	if err != nil {
		t.Fatalf("ParseVersion: %v", err)
	}
	if v.Major != 1 || v.Minor != 2 || v.Patch != 3 || v.Prerelease != "beta" || v.Build != "build" {
		t.Fatalf("got %+v", v)
	}
	if v.String() != "1.2.3-beta+build" {
		t.Fatalf("got %q", v.String())
	}
}

func TestParseVersionInvalid(t *testing.T) {
	if _, err := ParseVersion("1.2"); err == nil {
		t.Fatal("expected error for incomplete version")
	}
}

func TestVersionCompare(t *testing.T) {
	a, _ := ParseVersion("1.2.3")
	b, _ := ParseVersion("1.2.4")
	if a.Compare(b) >= 0 {
		t.Fatal("expected 1.2.3 < 1.2.4")
	}
	pre, _ := ParseVersion("1.2.3-beta")
	if pre.Compare(a) >= 0 {
		t.Fatal("expected a prerelease to sort before its release")
	}
}

func TestVersionReqCaret(t *testing.T) {
	req, err := ParseVersionReq("^1.2")
	if err != nil {
		t.Fatalf("ParseVersionReq: %v", err)
	}
	if !req.Matches(Version{Major: 1, Minor: 5, Patch: 0}) {
		t.Fatal("expected ^1.2 to match 1.5.0")
	}
	if req.Matches(Version{Major: 2}) {
		t.Fatal("expected ^1.2 to reject 2.0.0")
	}
}

func TestVersionReqTilde(t *testing.T) {
	req, err := ParseVersionReq("~=2.0")
	if err != nil {
		t.Fatalf("ParseVersionReq: %v", err)
	}
	if !req.Matches(Version{Major: 2, Minor: 0, Patch: 9}) {
		t.Fatal("expected ~=2.0 to match 2.0.9")
	}
	if req.Matches(Version{Major: 2, Minor: 1}) {
		t.Fatal("expected ~=2.0 to reject 2.1.0")
	}
}

func TestVersionReqRange(t *testing.T) {
	req, err := ParseVersionReq(">=1.0, <2.0")
	if err != nil {
		t.Fatalf("ParseVersionReq: %v", err)
	}
	if !req.Matches(Version{Major: 1, Minor: 9}) {
		t.Fatal("expected 1.9.0 to satisfy the range")
	}
	if req.Matches(Version{Major: 2}) {
		t.Fatal("expected 2.0.0 to violate <2.0")
	}
}
