// Package api wraps the analysis façade behind a validated JSON request
// envelope, for callers that drive the core over a serialised boundary
// (an HTTP handler, a CLI reading a request file) rather than linking the
// façade directly. Requests are checked against a JSON Schema before
// touching the façade at all, the way the teacher validates decorator
// configuration at its API boundary (core/types/validation.go) using
// santhosh-tekuri/jsonschema.
package api

import (
	"bytes"
	"context"
	"encoding/json"

	"github.com/pkg/errors"
	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/sybila/hctl-symbolic/pkgs/eval"
	"github.com/sybila/hctl-symbolic/pkgs/facade"
	"github.com/sybila/hctl-symbolic/pkgs/psbn"
)

const requestSchemaDoc = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"required": ["formula"],
	"properties": {
		"formula": {"type": "string", "minLength": 1},
		"max_iterations": {"type": "integer", "minimum": 1},
		"saturation": {"type": "boolean"},
		"cache_enabled": {"type": "boolean"}
	},
	"additionalProperties": false
}`

const requestSchemaURL = "hctl-symbolic://request.schema.json"

var requestSchema = compileRequestSchema()

func compileRequestSchema() *jsonschema.Schema {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(requestSchemaURL, bytes.NewReader([]byte(requestSchemaDoc))); err != nil {
		panic(errors.Wrap(err, "api: compiling request schema")) // fixed literal schema, cannot fail at runtime
	}
	schema, err := compiler.Compile(requestSchemaURL)
	if err != nil {
		panic(errors.Wrap(err, "api: compiling request schema"))
	}
	return schema
}

// Request is the JSON shape api.ModelCheck accepts: a formula plus the
// optional evaluator knobs of eval.Config.
type Request struct {
	Formula       string `json:"formula"`
	MaxIterations int    `json:"max_iterations,omitempty"`
	Saturation    *bool  `json:"saturation,omitempty"`
	CacheEnabled  *bool  `json:"cache_enabled,omitempty"`
}

// Response is the JSON shape returned to callers: the cardinality triple
// of spec.md §6, plus whether the CSS is non-empty.
type Response struct {
	Satisfiable bool   `json:"satisfiable"`
	StateCount  uint64 `json:"state_count"`
	ColourCount uint64 `json:"colour_count"`
	PairCount   uint64 `json:"pair_count"`
}

// ParseRequest validates raw JSON against the request schema and decodes
// it into a Request. Schema validation happens before decoding into the Go
// struct, so a malformed envelope never reaches the façade at all.
func ParseRequest(raw []byte) (Request, error) {
	var doc interface{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return Request{}, errors.Wrap(err, "api: decoding request JSON")
	}
	if err := requestSchema.Validate(doc); err != nil {
		return Request{}, errors.Wrap(err, "api: request failed schema validation")
	}

	var req Request
	if err := json.Unmarshal(raw, &req); err != nil {
		return Request{}, errors.Wrap(err, "api: decoding request JSON")
	}
	return req, nil
}

// config builds an eval.Config from the request, falling back to
// eval.DefaultConfig for any field the caller omitted.
func (r Request) config() eval.Config {
	cfg := eval.DefaultConfig()
	if r.MaxIterations > 0 {
		cfg.MaxIterations = r.MaxIterations
	}
	if r.Saturation != nil {
		cfg.Saturation = *r.Saturation
	}
	if r.CacheEnabled != nil {
		cfg.CacheEnabled = *r.CacheEnabled
	}
	return cfg
}

// ModelCheck validates raw against the request schema, then runs it
// through the façade against net, and serialises the cardinality result.
func ModelCheck(goCtx context.Context, net *psbn.Network, raw []byte) (Response, error) {
	req, err := ParseRequest(raw)
	if err != nil {
		return Response{}, err
	}

	result, err := facade.ModelCheck(goCtx, net, req.Formula, nil, req.config())
	if err != nil {
		return Response{}, err
	}

	return Response{
		Satisfiable: result.Cardinality.PairCount > 0,
		StateCount:  result.Cardinality.StateCount,
		ColourCount: result.Cardinality.ColourCount,
		PairCount:   result.Cardinality.PairCount,
	}, nil
}
