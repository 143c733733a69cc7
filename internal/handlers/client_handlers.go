package handlers

import (
	"net/http"

	"techdesk_backend/internal/models"
	"techdesk_backend/internal/services"

	"github.com/gin-gonic/gin"
)

// ClientHandler holds the client service.
type ClientHandler struct {
	clientService services.ClientService
}

// NewClientHandler creates a new ClientHandler.
func NewClientHandler(cs services.ClientService) *ClientHandler {
	return &ClientHandler{clientService: cs}
}

// CreateClient handles the creation of a new client.
func (h *ClientHandler) CreateClient(c *gin.Context) {
	var req models.ClientPayload
	if !bindJSON(c, &req, "CreateClient") {
		return
	}

	client, err := h.clientService.CreateClient(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err, "Failed to create client.")
		return
	}
	c.JSON(http.StatusCreated, client)
}

// GetClients lists every client, or searches when ?search= is present.
func (h *ClientHandler) GetClients(c *gin.Context) {
	var q models.SearchQuery
	_ = c.ShouldBindQuery(&q)

	var (
		clients []models.Client
		err     error
	)
	if _, searching := c.GetQuery("search"); searching {
		clients, err = h.clientService.SearchClients(c.Request.Context(), q.Search)
	} else {
		clients, err = h.clientService.GetClients(c.Request.Context())
	}
	if err != nil {
		respondServiceError(c, err, "Failed to fetch clients.")
		return
	}
	if clients == nil {
		clients = []models.Client{}
	}
	c.JSON(http.StatusOK, clients)
}

// GetClientOptions lists every client as id, nombre and apellido.
func (h *ClientHandler) GetClientOptions(c *gin.Context) {
	clients, err := h.clientService.GetClients(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, "Failed to fetch clients.")
		return
	}
	options := make([]models.ClientOption, 0, len(clients))
	for _, cl := range clients {
		options = append(options, models.ClientOption{ID: cl.ID, FirstName: cl.FirstName, LastName: cl.LastName})
	}
	c.JSON(http.StatusOK, options)
}

// GetClientByID handles fetching a single client by ID.
func (h *ClientHandler) GetClientByID(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	client, err := h.clientService.GetClientByID(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err, "Failed to fetch client.")
		return
	}
	c.JSON(http.StatusOK, client)
}

// UpdateClient handles a partial update of a client.
func (h *ClientHandler) UpdateClient(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req models.ClientPayload
	if !bindJSON(c, &req, "UpdateClient") {
		return
	}

	client, err := h.clientService.UpdateClient(c.Request.Context(), id, req)
	if err != nil {
		respondServiceError(c, err, "Failed to update client.")
		return
	}
	c.JSON(http.StatusOK, client)
}

// DeleteClient handles deleting a client.
func (h *ClientHandler) DeleteClient(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.clientService.DeleteClient(c.Request.Context(), id); err != nil {
		respondServiceError(c, err, "Failed to delete client.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Client deleted successfully."})
}
