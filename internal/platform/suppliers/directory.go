package suppliers

import (
	"bytes"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"gopkg.in/yaml.v3"

	"github.com/Apurer/youstockit/internal/clients/http/supplierapi"
	stockmemory "github.com/Apurer/youstockit/internal/domains/stock/adapters/memory"
	"github.com/Apurer/youstockit/internal/domains/stock/adapters/supplier"
	"github.com/Apurer/youstockit/internal/domains/stock/domain"
)

const (
	KindStub = "stub"
	KindHTTP = "http"
)

// File is the on-disk shape of the supplier directory.
type File struct {
	Suppliers []Definition `yaml:"suppliers"`
}

// Definition describes one supplier and how to reach its stock server.
type Definition struct {
	ID      int64             `yaml:"id"`
	Name    string            `yaml:"name"`
	Email   string            `yaml:"email"`
	Gateway GatewayDefinition `yaml:"gateway"`
}

// GatewayDefinition selects a scripted stub or a remote HTTP stock server.
type GatewayDefinition struct {
	Kind          string           `yaml:"kind"`
	AlwaysSucceed bool             `yaml:"alwaysSucceed"`
	Responses     []ResponseScript `yaml:"responses"`
	URL           string           `yaml:"url"`
	Timeout       time.Duration    `yaml:"timeout"`
}

// ResponseScript is one canned stub answer.
type ResponseScript struct {
	Requested int    `yaml:"requested"`
	Actual    int    `yaml:"actual"`
	Code      string `yaml:"code"`
}

// Defaults returns the demo directory: one supplier per possible stock server answer.
func Defaults() File {
	return File{Suppliers: []Definition{
		{ID: 1, Name: "Success supplier", Email: "orders@success.supplier.test",
			Gateway: GatewayDefinition{Kind: KindStub, AlwaysSucceed: true}},
		{ID: 2, Name: "Communication error supplier", Email: "orders@offline.supplier.test",
			Gateway: GatewayDefinition{Kind: KindStub, Responses: []ResponseScript{{Code: string(domain.CodeCommunicationError)}}}},
		{ID: 3, Name: "Item not found supplier", Email: "orders@discontinued.supplier.test",
			Gateway: GatewayDefinition{Kind: KindStub, Responses: []ResponseScript{{Code: string(domain.CodeItemNotFound)}}}},
		{ID: 4, Name: "Out of stock supplier", Email: "orders@shortage.supplier.test",
			Gateway: GatewayDefinition{Kind: KindStub, Responses: []ResponseScript{{Actual: 10, Code: string(domain.CodeOutOfStock)}}}},
	}}
}

// Parse decodes a supplier directory document.
func Parse(data []byte) (File, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return File{}, fmt.Errorf("suppliers: document is empty")
	}
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return File{}, fmt.Errorf("suppliers: decode: %w", err)
	}
	if err := f.Validate(); err != nil {
		return File{}, err
	}
	return f, nil
}

// LoadFile reads the directory at path; an empty path yields the demo directory.
func LoadFile(path string) (File, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return Defaults(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return File{}, fmt.Errorf("suppliers: read %s: %w", path, err)
	}
	f, err := Parse(data)
	if err != nil {
		return File{}, fmt.Errorf("suppliers: %s: %w", path, err)
	}
	return f, nil
}

func (f File) Validate() error {
	if len(f.Suppliers) == 0 {
		return fmt.Errorf("suppliers: no suppliers defined")
	}
	seen := make(map[int64]struct{}, len(f.Suppliers))
	for _, def := range f.Suppliers {
		if def.ID <= 0 {
			return fmt.Errorf("suppliers: %q has invalid id %d", def.Name, def.ID)
		}
		if _, dup := seen[def.ID]; dup {
			return fmt.Errorf("suppliers: duplicate id %d", def.ID)
		}
		seen[def.ID] = struct{}{}
		if strings.TrimSpace(def.Name) == "" {
			return fmt.Errorf("suppliers: id %d has no name", def.ID)
		}
		switch def.Gateway.Kind {
		case "", KindStub:
			for _, r := range def.Gateway.Responses {
				if !domain.ResponseCode(r.Code).Valid() {
					return fmt.Errorf("suppliers: id %d has unknown response code %q", def.ID, r.Code)
				}
			}
		case KindHTTP:
			if strings.TrimSpace(def.Gateway.URL) == "" {
				return fmt.Errorf("suppliers: id %d uses http gateway without url", def.ID)
			}
		default:
			return fmt.Errorf("suppliers: id %d has unknown gateway kind %q", def.ID, def.Gateway.Kind)
		}
	}
	return nil
}

// Build turns the definitions into suppliers with live gateways.
func (f File) Build() ([]*domain.Supplier, error) {
	out := make([]*domain.Supplier, 0, len(f.Suppliers))
	for _, def := range f.Suppliers {
		gw, err := buildGateway(def.Gateway)
		if err != nil {
			return nil, fmt.Errorf("suppliers: id %d: %w", def.ID, err)
		}
		out = append(out, &domain.Supplier{ID: def.ID, Name: def.Name, Email: def.Email, Gateway: gw})
	}
	return out, nil
}

// Directory loads path (or the demo defaults) into an in-memory supplier directory.
func Directory(path string) (*stockmemory.Suppliers, error) {
	f, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	list, err := f.Build()
	if err != nil {
		return nil, err
	}
	return stockmemory.NewSuppliers(list...), nil
}

func buildGateway(def GatewayDefinition) (domain.Gateway, error) {
	if def.Kind == KindHTTP {
		timeout := def.Timeout
		if timeout <= 0 {
			timeout = 5 * time.Second
		}
		return supplierapi.NewClient(def.URL, &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		})
	}
	stub := supplier.NewStub()
	if def.AlwaysSucceed {
		stub.AlwaysSucceed()
	}
	for _, r := range def.Responses {
		stub.AddResponse(r.Requested, r.Actual, domain.ResponseCode(r.Code))
	}
	return stub, nil
}
