package generatorhelper

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
)

// Server reads requests and dispatches them to Handler.
type Server struct {
	Handler Handler
	Logger  *slog.Logger
}

// Serve runs a Server with the default logger.
func Serve(ctx context.Context, in io.Reader, out io.Writer, h Handler) error {
	return (&Server{Handler: h}).Serve(ctx, in, out)
}

// Serve handles requests from in until EOF, writing responses to out. Requests are processed
// one at a time in arrival order. It returns nil at EOF and ctx.Err() once ctx is done.
func (s *Server) Serve(ctx context.Context, in io.Reader, out io.Writer) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	lines := make(chan []byte)
	readErr := make(chan error, 1)
	go func() {
		defer close(lines)
		r := bufio.NewReader(in)
		for {
			line, err := r.ReadBytes('\n')
			if len(bytes.TrimSpace(line)) > 0 {
				select {
				case lines <- line:
				case <-ctx.Done():
					return
				}
			}
			if err != nil {
				if err != io.EOF {
					readErr <- err
				}
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case line, ok := <-lines:
			if !ok {
				select {
				case err := <-readErr:
					return fmt.Errorf("read request: %w", err)
				default:
					return ctx.Err()
				}
			}
			if err := s.handle(ctx, line, out); err != nil {
				return err
			}
		}
	}
}

func (s *Server) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}

func (s *Server) handle(ctx context.Context, line []byte, out io.Writer) error {
	var req request
	if err := json.Unmarshal(line, &req); err != nil {
		s.logger().Warn("skipping malformed request", "error", err)
		return nil
	}
	s.logger().Debug("request", "method", req.Method)

	resp := response{JSONRPC: "2.0", ID: req.ID}
	switch req.Method {
	case "getManifest":
		var cfg GeneratorConfig
		if err := json.Unmarshal(req.Params, &cfg); err != nil {
			resp.Error = newError(codeInvalidParams, fmt.Errorf("decode generator config: %w", err))
			break
		}
		manifest, err := s.Handler.OnManifest(ctx, cfg)
		if err != nil {
			resp.Error = newError(codeServerError, err)
			break
		}
		resp.Result = manifestResult{Manifest: manifest}
	case "generate":
		var opts GeneratorOptions
		if err := json.Unmarshal(req.Params, &opts); err != nil {
			resp.Error = newError(codeInvalidParams, fmt.Errorf("decode generator options: %w", err))
			break
		}
		if err := s.Handler.OnGenerate(ctx, opts); err != nil {
			resp.Error = newError(codeServerError, err)
		}
	default:
		resp.Error = methodNotFound(req.Method)
	}

	data, err := json.Marshal(resp)
	if err != nil {
		return fmt.Errorf("encode response: %w", err)
	}
	if _, err := out.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("write response: %w", err)
	}
	return nil
}
