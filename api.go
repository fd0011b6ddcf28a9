package main

import (
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
)

// Router serves the read-mostly status API the console UI polls. All state
// comes straight off the device records as snapshots.
func (a *Adapter) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Logger)

	r.Route("/devices", func(r chi.Router) {
		r.Get("/", a.listDevices)
		r.Route("/{device}", func(r chi.Router) {
			r.Get("/", a.getDevice)
			r.Delete("/switch", a.clearSwitch)
		})
	})

	return r
}

func (a *Adapter) listDevices(w http.ResponseWriter, r *http.Request) {
	names := make([]string, 0, len(a.Devices))
	for name := range a.Devices {
		names = append(names, name)
	}
	render.JSON(w, r, names)
}

func (a *Adapter) getDevice(w http.ResponseWriter, r *http.Request) {
	m, ok := a.Devices[chi.URLParam(r, "device")]
	if !ok {
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, map[string]string{"error": "unknown device"})
		return
	}
	render.JSON(w, r, m.State())
}

// clearSwitch acknowledges a pending slave-switch gesture. The device record
// never clears the flag itself; that is the consumer's job.
func (a *Adapter) clearSwitch(w http.ResponseWriter, r *http.Request) {
	m, ok := a.Devices[chi.URLParam(r, "device")]
	if !ok {
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, map[string]string{"error": "unknown device"})
		return
	}
	m.ClearSwitchSlave()
	render.NoContent(w, r)
}
