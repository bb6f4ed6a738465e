// Package generatorhelper implements the protocol Prisma uses to drive generator providers.
//
// `prisma generate` starts the provider process and writes one JSON-RPC 2.0 request per line
// to its stdin. The provider answers each request with one JSON line on stderr. Two methods
// exist: getManifest, asked once to learn defaults, and generate, carrying the DMMF.
package generatorhelper

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/TechXTT/prisma-factory/pkg/dmmf"
)

// InvocationEnv is set by Prisma when it starts a generator provider.
const InvocationEnv = "PRISMA_GENERATOR_INVOCATION"

// EnvValue is a schema value that may come from an environment variable.
type EnvValue struct {
	Value      string  `json:"value"`
	FromEnvVar *string `json:"fromEnvVar"`
}

// GeneratorConfig is a `generator` block of the schema as resolved by Prisma.
type GeneratorConfig struct {
	Name            string                     `json:"name"`
	Provider        EnvValue                   `json:"provider"`
	Output          *EnvValue                  `json:"output"`
	Config          map[string]json.RawMessage `json:"config"`
	BinaryTargets   []EnvValue                 `json:"binaryTargets"`
	PreviewFeatures []string                   `json:"previewFeatures"`
}

// ConfigString returns a config option as a string. List values are joined with commas.
// Missing keys yield "".
func (c GeneratorConfig) ConfigString(key string) string {
	raw, ok := c.Config[key]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		return strings.Join(list, ",")
	}
	return ""
}

// GeneratorOptions are the params of a generate request.
type GeneratorOptions struct {
	Generator       GeneratorConfig   `json:"generator"`
	OtherGenerators []GeneratorConfig `json:"otherGenerators"`
	SchemaPath      string            `json:"schemaPath"`
	DMMF            *dmmf.Document    `json:"dmmf"`
	Datamodel       string            `json:"datamodel"`
	Version         string            `json:"version"`
}

// Manifest describes the generator to Prisma.
type Manifest struct {
	PrettyName         string   `json:"prettyName,omitempty"`
	DefaultOutput      string   `json:"defaultOutput,omitempty"`
	Denylists          []string `json:"denylists,omitempty"`
	RequiresGenerators []string `json:"requiresGenerators,omitempty"`
	RequiresEngines    []string `json:"requiresEngines,omitempty"`
	Version            string   `json:"version,omitempty"`
}

// Handler answers protocol requests.
type Handler interface {
	OnManifest(ctx context.Context, cfg GeneratorConfig) (Manifest, error)
	OnGenerate(ctx context.Context, opts GeneratorOptions) error
}

const (
	codeMethodNotFound = -32601
	codeInvalidParams  = -32602
	codeServerError    = -32000
)

type request struct {
	JSONRPC string          `json:"jsonrpc"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params"`
	ID      json.RawMessage `json:"id"`
}

type response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  any             `json:"result"`
	Error   *rpcError       `json:"error,omitempty"`
}

// MarshalJSON omits result on error responses and keeps an explicit null otherwise.
func (r response) MarshalJSON() ([]byte, error) {
	if r.Error != nil {
		return json.Marshal(struct {
			JSONRPC string          `json:"jsonrpc"`
			ID      json.RawMessage `json:"id"`
			Error   *rpcError       `json:"error"`
		}{r.JSONRPC, r.ID, r.Error})
	}
	type plain response
	return json.Marshal(plain(r))
}

type rpcError struct {
	Code    int          `json:"code"`
	Message string       `json:"message"`
	Data    rpcErrorData `json:"data"`
}

type rpcErrorData struct {
	Stack string `json:"stack"`
}

type manifestResult struct {
	Manifest Manifest `json:"manifest"`
}

func newError(code int, err error) *rpcError {
	return &rpcError{Code: code, Message: err.Error(), Data: rpcErrorData{Stack: err.Error()}}
}

func methodNotFound(method string) *rpcError {
	return newError(codeMethodNotFound, fmt.Errorf("method %q not found", method))
}
