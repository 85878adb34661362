// Package server provides the HTTP surface of the scorecard engine.
//
// The architecture follows the pattern: CLI → Server → Router → Handlers,
// with the scan pipeline and the session store injected from the CLI:
//
//	cfg := server.DefaultConfig()
//	srv, err := server.New(scanner, sessions, cfg, server.WithMetrics(m))
//	if err != nil {
//	    return err
//	}
//	http.ListenAndServe(cfg.Addr(), srv.Handler())
package server

//go:generate gomarkdoc --output README.md .
