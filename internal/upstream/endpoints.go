package upstream

import (
	"context"
	"fmt"
	"net/http"

	"lactalog-backend/internal/models"
)

// Typed wrappers for the upstream's resource endpoints. Paths (including the
// trailing-slash irregularities) follow the API contract as consumed.

// --- Users ---

func (g *Gateway) ListUsers(ctx context.Context) ([]*models.User, error) {
	var users []*models.User
	err := g.send(ctx, http.MethodGet, "/usuarios/", nil, &users)
	return users, err
}

func (g *Gateway) GetUser(ctx context.Context, id int) (*models.User, error) {
	var user models.User
	err := g.send(ctx, http.MethodGet, fmt.Sprintf("/usuarios/%d", id), nil, &user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (g *Gateway) CreateUser(ctx context.Context, u *models.User) error {
	return g.send(ctx, http.MethodPost, "/usuarios", u, nil)
}

func (g *Gateway) UpdateUser(ctx context.Context, id int, u *models.User) error {
	return g.send(ctx, http.MethodPut, fmt.Sprintf("/usuarios/%d", id), u, nil)
}

func (g *Gateway) DeleteUser(ctx context.Context, id int) error {
	return g.send(ctx, http.MethodDelete, fmt.Sprintf("/usuarios/%d", id), nil, nil)
}

// --- Clients ---

func (g *Gateway) ListClientes(ctx context.Context) ([]*models.Cliente, error) {
	var clientes []*models.Cliente
	err := g.send(ctx, http.MethodGet, "/clientes/", nil, &clientes)
	return clientes, err
}

func (g *Gateway) CreateCliente(ctx context.Context, c *models.Cliente) error {
	return g.send(ctx, http.MethodPost, "/clientes/", c, nil)
}

func (g *Gateway) UpdateCliente(ctx context.Context, id int, c *models.Cliente) error {
	return g.send(ctx, http.MethodPut, fmt.Sprintf("/clientes/%d", id), c, nil)
}

func (g *Gateway) DeleteCliente(ctx context.Context, id int) error {
	return g.send(ctx, http.MethodDelete, fmt.Sprintf("/clientes/%d", id), nil, nil)
}

// --- Transports ---

func (g *Gateway) ListTransports(ctx context.Context) ([]*models.Transport, error) {
	var transports []*models.Transport
	err := g.send(ctx, http.MethodGet, "/transporte/", nil, &transports)
	return transports, err
}

func (g *Gateway) GetTransport(ctx context.Context, id int) (*models.Transport, error) {
	var t models.Transport
	err := g.send(ctx, http.MethodGet, fmt.Sprintf("/transporte/%d", id), nil, &t)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (g *Gateway) CreateTransport(ctx context.Context, req *models.CreateTransportRequest) error {
	return g.send(ctx, http.MethodPost, "/transporte", req, nil)
}

func (g *Gateway) UpdateTransport(ctx context.Context, id int, t *models.Transport) error {
	return g.send(ctx, http.MethodPut, fmt.Sprintf("/transporte/%d", id), t, nil)
}

func (g *Gateway) DeleteTransport(ctx context.Context, id int) error {
	return g.send(ctx, http.MethodDelete, fmt.Sprintf("/transporte/%d", id), nil, nil)
}

func (g *Gateway) CloseTransport(ctx context.Context, id int) error {
	return g.send(ctx, http.MethodPatch, fmt.Sprintf("/transporte/%d/cerrar", id), nil, nil)
}

func (g *Gateway) ReopenTransport(ctx context.Context, id int) error {
	return g.send(ctx, http.MethodPatch, fmt.Sprintf("/transporte/%d/reabrir", id), nil, nil)
}

func (g *Gateway) VerifyTransportAnomaly(ctx context.Context, id int, note string) error {
	req := models.VerifyAnomalyRequest{AnomalyNote: note}
	return g.send(ctx, http.MethodPatch, fmt.Sprintf("/transporte/%d/verificar_anomalia", id), &req, nil)
}

func (g *Gateway) SeizeTransport(ctx context.Context, id int, note string) error {
	req := models.SeizeTransportRequest{SeizureNote: note}
	return g.send(ctx, http.MethodPatch, fmt.Sprintf("/transporte/%d/decomiso", id), &req, nil)
}

// --- Analyses ---

func (g *Gateway) ListAnalyses(ctx context.Context) ([]*models.Analysis, error) {
	var analyses []*models.Analysis
	err := g.send(ctx, http.MethodGet, "/analisis/", nil, &analyses)
	return analyses, err
}

func (g *Gateway) GetAnalysis(ctx context.Context, id int) (*models.Analysis, error) {
	var a models.Analysis
	err := g.send(ctx, http.MethodGet, fmt.Sprintf("/analisis/%d", id), nil, &a)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (g *Gateway) UpdateAnalysis(ctx context.Context, id int, req *models.UpdateAnalysisRequest) error {
	return g.send(ctx, http.MethodPut, fmt.Sprintf("/analisis/%d", id), req, nil)
}

func (g *Gateway) CloseAnalysis(ctx context.Context, id int) error {
	return g.send(ctx, http.MethodPatch, fmt.Sprintf("/analisis/%d/cerrar", id), nil, nil)
}

func (g *Gateway) ReopenAnalysis(ctx context.Context, id int) error {
	return g.send(ctx, http.MethodPatch, fmt.Sprintf("/analisis/%d/reabrir", id), nil, nil)
}

func (g *Gateway) VerifyAnalysisAnomaly(ctx context.Context, id int, note string) error {
	req := models.VerifyAnomalyRequest{AnomalyNote: note}
	return g.send(ctx, http.MethodPatch, fmt.Sprintf("/analisis/%d/verificar_anomalia", id), &req, nil)
}
