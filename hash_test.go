package gdpr

import (
	"strings"
	"testing"
)

func TestSHA256Digest(t *testing.T) {
	got, err := sha256Digest([]byte("hello"))
	if err != nil {
		t.Fatalf("sha256Digest() error: %v", err)
	}
	want := "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824"
	if got != want {
		t.Errorf("sha256Digest() = %q, want %q", got, want)
	}
}

func TestSHA512Digest(t *testing.T) {
	got, err := sha512Digest([]byte("hello"))
	if err != nil {
		t.Fatalf("sha512Digest() error: %v", err)
	}
	if !strings.HasPrefix(got, "9b71d224bd62f3785d96d46ad3ea3d73") || len(got) != 128 {
		t.Errorf("sha512Digest() = %q", got)
	}
}

func TestBlake2bDigest(t *testing.T) {
	keyed, err := blake2bDigest([]byte("k3y"))([]byte("hello"))
	if err != nil {
		t.Fatalf("blake2bDigest() error: %v", err)
	}
	if keyed != "d10f864770973d8711b88af16d12330002542eface62be0b4e3740ed3ce78f85" {
		t.Errorf("keyed digest = %q", keyed)
	}

	unkeyed, err := blake2bDigest(nil)([]byte("hello"))
	if err != nil {
		t.Fatalf("blake2bDigest() error: %v", err)
	}
	if unkeyed != "324dcf027dd4a30a932c441f365a25e86b173defa4b8e58948253471b81b72cf" {
		t.Errorf("unkeyed digest = %q", unkeyed)
	}
}

func TestBlake2bDigest_KeyTooLong(t *testing.T) {
	_, err := blake2bDigest(make([]byte, 65))([]byte("hello"))
	if err == nil {
		t.Error("blake2bDigest() with a 65-byte key should fail")
	}
}

func TestArgon2Digest(t *testing.T) {
	p := Argon2Params{Time: 1, Memory: 1024, Threads: 1, KeyLen: 16}
	digest := argon2Digest(p, []byte("salt-salt-salt"))

	a, err := digest([]byte("password"))
	if err != nil {
		t.Fatalf("argon2Digest() error: %v", err)
	}
	b, _ := digest([]byte("password"))
	c, _ := digest([]byte("other"))

	if a != b {
		t.Error("argon2Digest() should be deterministic for one salt")
	}
	if a == c {
		t.Error("argon2Digest() should differ for different inputs")
	}
	if !strings.HasPrefix(a, "$argon2id$v=19$m=1024,t=1,p=1$") {
		t.Errorf("argon2Digest() = %q, want PHC-style prefix", a)
	}

	unsalted, _ := argon2Digest(p, nil)([]byte("password"))
	if unsalted == a {
		t.Error("default salt should differ from an explicit salt")
	}
}

func TestDefaultArgon2Params(t *testing.T) {
	p := DefaultArgon2Params()
	if p.Time == 0 || p.Memory == 0 || p.Threads == 0 || p.KeyLen == 0 {
		t.Errorf("DefaultArgon2Params() has zero values: %+v", p)
	}
}
