//go:build pact
// +build pact

package pacttest

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

// YouStockIt consumes the supplier stock servers and is itself consumed by the stock portal.
const (
	AppName            = "youstockit-api"
	SupplierServerName = "supplier-stock-server"
	PortalName         = "stock-portal"
)

const (
	StateSupplierStocksItem = "supplier stocks item 1"
	StateSupplierDown       = "supplier stock server is under maintenance"
	StateCatalogueHasItem   = "catalogue has item 1 with 50 units"
	StateCatalogueEmpty     = "catalogue is empty"
)

const (
	ExistingItemID    int64 = 1
	MissingItemID     int64 = 404
	MaintenanceItemID int64 = 2
	OrderAmount             = 30
)

// PactDir returns the workspace-level directory for generated pact files.
func PactDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "pacts")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact dir: %v", err)
	}
	return dir
}

// PactFile returns the canonical pact file path for a consumer/provider pair.
func PactFile(t testing.TB, consumer, provider string) string {
	t.Helper()
	return filepath.Join(PactDir(t), consumer+"-"+provider+".json")
}

// LogDir returns the log output directory for pact-go.
func LogDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "bin", "pact-logs")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact log dir: %v", err)
	}
	return dir
}

// projectRoot walks up from this file to the workspace root.
func projectRoot(t testing.TB) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("cannot determine caller for pact paths")
	}
	return filepath.Clean(filepath.Join(filepath.Dir(file), "..", ".."))
}
