package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/specialistvlad/shadermat/internal/ctxlog"
	"github.com/specialistvlad/shadermat/internal/host"
	"github.com/specialistvlad/shadermat/internal/memhost"
)

// imageInfo is the JSON view of a host image.
type imageInfo struct {
	Name       string `json:"name"`
	Width      int    `json:"width"`
	Height     int    `json:"height"`
	FileFormat string `json:"file_format"`
	Source     string `json:"source"`
	AlphaMode  string `json:"alpha_mode"`
	Colorspace string `json:"colorspace,omitempty"`
	Bytes      int    `json:"bytes"`
}

// materialSummary is the JSON view of a material in listings.
type materialSummary struct {
	Name   string `json:"name"`
	PathID string `json:"path_id,omitempty"`
	Nodes  int    `json:"nodes"`
}

type nodeInfo struct {
	Name       string            `json:"name"`
	Kind       string            `json:"kind"`
	Location   [2]float32        `json:"location"`
	Properties map[string]string `json:"properties,omitempty"`
	Defaults   map[string]string `json:"defaults,omitempty"`
}

type linkInfo struct {
	From       string `json:"from"`
	FromSocket string `json:"from_socket"`
	To         string `json:"to"`
	ToSocket   string `json:"to_socket"`
}

type materialInfo struct {
	materialSummary
	Properties map[string]string `json:"properties,omitempty"`
	NodeList   []nodeInfo        `json:"node_list"`
	Links      []linkInfo        `json:"links"`
}

// newRouter wires the inspection endpoints.
func (app *App) newRouter() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/health", app.healthHandler).Methods(http.MethodGet)
	r.HandleFunc("/kinds", app.kindsHandler).Methods(http.MethodGet)
	r.HandleFunc("/images", app.imagesHandler).Methods(http.MethodGet)
	r.HandleFunc("/materials", app.materialsHandler).Methods(http.MethodGet)
	r.HandleFunc("/materials/{name:.+}", app.materialHandler).Methods(http.MethodGet)
	return r
}

// healthHandler creates an http.Handler that logs requests to the provided logger.
func (app *App) healthHandler(w http.ResponseWriter, r *http.Request) {
	logger := ctxlog.FromContext(app.ctx)
	logger.Debug("Health check endpoint hit.", "remote_addr", r.RemoteAddr, "path", r.URL.Path)
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "OK")
}

// kindsHandler lists the node kinds descriptors may use.
func (app *App) kindsHandler(w http.ResponseWriter, r *http.Request) {
	app.writeJSON(w, http.StatusOK, memhost.Kinds())
}

func (app *App) imagesHandler(w http.ResponseWriter, r *http.Request) {
	images := app.registry.Images()
	out := make([]imageInfo, 0, len(images))
	for _, img := range images {
		width, height := img.Size()
		out = append(out, imageInfo{
			Name:       img.Name(),
			Width:      width,
			Height:     height,
			FileFormat: img.FileFormat(),
			Source:     img.Source(),
			AlphaMode:  img.AlphaMode(),
			Colorspace: img.Colorspace(),
			Bytes:      len(img.Data()),
		})
	}
	app.writeJSON(w, http.StatusOK, out)
}

func (app *App) materialsHandler(w http.ResponseWriter, r *http.Request) {
	materials := app.registry.Materials()
	out := make([]materialSummary, 0, len(materials))
	for _, m := range materials {
		out = append(out, summarizeMaterial(m))
	}
	app.writeJSON(w, http.StatusOK, out)
}

func (app *App) materialHandler(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	m, ok := app.registry.LookupMaterial(name)
	if !ok {
		app.writeJSON(w, http.StatusNotFound, map[string]string{"error": fmt.Sprintf("material %q not found", name)})
		return
	}

	info := materialInfo{
		materialSummary: summarizeMaterial(m),
		Properties:      stringify(m.Properties()),
	}
	for _, n := range m.Tree().All() {
		loc := n.Location()
		info.NodeList = append(info.NodeList, nodeInfo{
			Name:       n.Name(),
			Kind:       n.Kind(),
			Location:   [2]float32{loc[0], loc[1]},
			Properties: stringify(n.Properties()),
			Defaults:   stringify(n.Defaults()),
		})
	}
	for _, l := range m.Tree().Links() {
		info.Links = append(info.Links, linkInfo{From: l.From.Name(), FromSocket: l.FromSocket, To: l.To.Name(), ToSocket: l.ToSocket})
	}
	app.writeJSON(w, http.StatusOK, info)
}

func summarizeMaterial(m *memhost.Material) materialSummary {
	pathID, _ := m.Tag(host.TagPathID)
	return materialSummary{Name: m.Name(), PathID: pathID, Nodes: len(m.Tree().All())}
}

func stringify(values map[string]host.Value) map[string]string {
	if len(values) == 0 {
		return nil
	}
	out := make(map[string]string, len(values))
	for k, v := range values {
		out[k] = v.String()
	}
	return out
}

func (app *App) writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		ctxlog.FromContext(app.ctx).Error("Failed to encode inspection response.", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(data)
}

// inspectServer initializes and runs the inspection HTTP server.
func (app *App) inspectServer() {
	logger := ctxlog.FromContext(app.ctx)
	logger.Debug("Configuring inspection server.")
	if app.config.InspectPort <= 0 {
		logger.Debug("Inspection server not started: disabled")
		return
	}

	addr := fmt.Sprintf(":%d", app.config.InspectPort)
	app.httpServer = &http.Server{
		Addr:              addr,
		Handler:           app.newRouter(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("🩺 Inspection server starting", "address", fmt.Sprintf("http://localhost%s/health", addr))
		// ListenAndServe returns ErrServerClosed on graceful shutdown.
		if err := app.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Inspection server failed unexpectedly", "error", err)
		}
	}()
}

func (app *App) closeInspectServer() error {
	logger := ctxlog.FromContext(app.ctx)
	logger.Debug("Closing inspection server...")

	if app.httpServer == nil {
		logger.Debug("Inspection server was not running.")
		return nil
	}

	ctx, cancel := context.WithTimeout(app.ctx, 5*time.Second)
	defer cancel()

	logger.Info("🩺 Shutting down inspection server...")
	if err := app.httpServer.Shutdown(ctx); err != nil {
		logger.Error("Inspection server shutdown failed", "error", err)
		return err
	}

	logger.Debug("Inspection server shut down gracefully.")
	return nil
}
