// Package serve runs the NDJSON stdin/stdout request loop. One JSON
// request per line in, one JSON response per line out; the process is
// driven entirely by its parent.
package serve

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"io"

	"github.com/decoyhive/decoyhive/pkg/store"
	"github.com/decoyhive/decoyhive/pkg/token"
	"github.com/decoyhive/decoyhive/pkg/validator"
)

// Version is the server protocol version.
const Version = "1.0.0"

// Server handles streaming validate/token requests.
type Server struct {
	validators *validator.Suite
	tokens     *token.Generator
	store      store.Store
	encoder    *json.Encoder
	decoder    *json.Decoder
}

// NewServer creates a streaming server reading requests from in and
// writing responses to out.
func NewServer(validators *validator.Suite, tokens *token.Generator, st store.Store, in io.Reader, out io.Writer) *Server {
	return &Server{
		validators: validators,
		tokens:     tokens,
		store:      st,
		encoder:    json.NewEncoder(out),
		decoder:    json.NewDecoder(bufio.NewReader(in)),
	}
}

// Run starts the server main loop and returns when stdin closes, a
// close request arrives, or ctx cancels.
func (s *Server) Run(ctx context.Context) error {
	s.sendReady()

	reqChan := make(chan Request, 1)
	errChan := make(chan error, 1)

	go func() {
		for {
			var req Request
			if err := s.decoder.Decode(&req); err != nil {
				errChan <- err
				return
			}
			select {
			case reqChan <- req:
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-errChan:
			// Drain pending requests before handling EOF.
			for {
				select {
				case req := <-reqChan:
					if s.processRequest(ctx, req) {
						return nil
					}
				default:
					if err == io.EOF {
						return nil
					}
					s.sendError("decode", err.Error())
					return nil
				}
			}
		case req := <-reqChan:
			if s.processRequest(ctx, req) {
				return nil
			}
		}
	}
}

// processRequest handles one request and reports whether the server
// should exit.
func (s *Server) processRequest(ctx context.Context, req Request) bool {
	switch req.Type {
	case "validate":
		s.handleValidate(req.Payload)
	case "generate_token":
		s.handleGenerateToken(ctx, req.Payload)
	case "check_token":
		s.handleCheckToken(ctx, req.Payload)
	case "close":
		return true
	default:
		s.sendError("unknown", "unknown request type: "+req.Type)
	}
	return false
}

func (s *Server) sendReady() {
	data, _ := json.Marshal(ReadyData{Version: Version})
	s.encoder.Encode(Response{
		Success: true,
		Type:    "ready",
		Data:    data,
	})
}

func (s *Server) handleValidate(payload json.RawMessage) {
	var p ValidatePayload
	if err := json.Unmarshal(payload, &p); err != nil {
		s.sendError("validate", err.Error())
		return
	}

	results := s.validators.Run(p.Content, validator.Context{FileType: p.FileType})
	valid := true
	var total float64
	for _, r := range results {
		valid = valid && r.Valid
		total += r.Score
	}
	var overall float64
	if len(results) > 0 {
		overall = total / float64(len(results))
	}

	data, _ := json.Marshal(ValidateData{
		Valid:        valid,
		OverallScore: overall,
		Results:      results,
	})
	s.encoder.Encode(Response{
		Success: true,
		Type:    "validate",
		Data:    data,
	})
}

func (s *Server) handleGenerateToken(ctx context.Context, payload json.RawMessage) {
	var p GenerateTokenPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		s.sendError("generate_token", err.Error())
		return
	}

	gc := s.tokens.Generate(token.Params{TokenType: p.TokenType, FormatHint: p.FormatHint})
	out := GenerateTokenData{TokenValue: gc.Content}

	if p.Persist {
		tokenType, _ := gc.Metadata["token_type"].(string)
		rec, err := s.store.CreateToken(ctx, store.CreateTokenParams{
			TokenType:  tokenType,
			TokenValue: gc.Content,
			HoneypotID: p.HoneypotID,
			FilePath:   p.FilePath,
			Metadata:   gc.Metadata,
		})
		if err != nil {
			s.sendError("generate_token", err.Error())
			return
		}
		out.Token = rec
	}

	data, _ := json.Marshal(out)
	s.encoder.Encode(Response{
		Success: true,
		Type:    "generate_token",
		Data:    data,
	})
}

func (s *Server) handleCheckToken(ctx context.Context, payload json.RawMessage) {
	var p CheckTokenPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		s.sendError("check_token", err.Error())
		return
	}

	rec, err := s.store.CheckToken(ctx, p.Value)
	switch {
	case errors.Is(err, store.ErrNotFound):
		data, _ := json.Marshal(CheckTokenData{Found: false})
		s.encoder.Encode(Response{Success: true, Type: "check_token", Data: data})
	case err != nil:
		s.sendError("check_token", err.Error())
	default:
		data, _ := json.Marshal(CheckTokenData{Found: true, Token: rec})
		s.encoder.Encode(Response{Success: true, Type: "check_token", Data: data})
	}
}

func (s *Server) sendError(reqType, msg string) {
	s.encoder.Encode(Response{
		Success: false,
		Type:    reqType,
		Error:   msg,
	})
}
