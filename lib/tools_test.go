package lib

import (
	"testing"
)

func TestRandomCookieNonZeroAndVaries(t *testing.T) {
	a := RandomCookie()
	b := RandomCookie()
	if a == 0 {
		t.Fatal("expected a non-zero cookie")
	}
	if a == b {
		t.Fatal("expected two random cookies to differ")
	}
}
