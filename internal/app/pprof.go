package app

import (
	"net/http"
	"net/http/pprof"
)

// registerPprof mounts the standard net/http/pprof handlers on mux,
// gated by Config.Observability.EnablePprofTrace. The teacher carried
// this flag through to its HTTP handler config without ever mounting
// anything behind it; it only does something here because the monitor
// server gives pprof an HTTP surface to attach to.
func registerPprof(mux *http.ServeMux) {
	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)
}
