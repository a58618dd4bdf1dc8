package chassis

import (
	"crypto/x509"
	"encoding/pem"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/hazyhaar/artikel/pkg/mcpquic"
)

func TestGenerateSelfSignedCert(t *testing.T) {
	cert, err := GenerateSelfSignedCert()
	if err != nil {
		t.Fatal(err)
	}
	leaf := cert.Leaf
	if leaf == nil {
		t.Fatal("leaf not set")
	}
	if err := leaf.VerifyHostname("localhost"); err != nil {
		t.Errorf("VerifyHostname(localhost): %v", err)
	}
	if err := leaf.VerifyHostname("127.0.0.1"); err != nil {
		t.Errorf("VerifyHostname(127.0.0.1): %v", err)
	}
	if !slices.Contains(leaf.ExtKeyUsage, x509.ExtKeyUsageServerAuth) {
		t.Error("missing server auth usage")
	}
}

func TestDevelopmentTLSConfig_ALPN(t *testing.T) {
	cfg, err := DevelopmentTLSConfig()
	if err != nil {
		t.Fatal(err)
	}
	for _, proto := range []string{"h3", mcpquic.ALPN, "h2"} {
		if !slices.Contains(cfg.NextProtos, proto) {
			t.Errorf("NextProtos %v missing %q", cfg.NextProtos, proto)
		}
	}
}

func TestProductionTLSConfig(t *testing.T) {
	cert, err := GenerateSelfSignedCert()
	if err != nil {
		t.Fatal(err)
	}
	keyDER, err := x509.MarshalPKCS8PrivateKey(cert.PrivateKey)
	if err != nil {
		t.Fatal(err)
	}
	dir := t.TempDir()
	certFile := filepath.Join(dir, "cert.pem")
	keyFile := filepath.Join(dir, "key.pem")
	os.WriteFile(certFile, pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: cert.Certificate[0]}), 0o600)
	os.WriteFile(keyFile, pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: keyDER}), 0o600)

	cfg, err := ProductionTLSConfig(certFile, keyFile)
	if err != nil {
		t.Fatalf("ProductionTLSConfig: %v", err)
	}
	if len(cfg.Certificates) != 1 {
		t.Errorf("certificates = %d", len(cfg.Certificates))
	}

	if _, err := ProductionTLSConfig(filepath.Join(dir, "missing.pem"), keyFile); err == nil {
		t.Error("expected error for missing cert")
	}
}
