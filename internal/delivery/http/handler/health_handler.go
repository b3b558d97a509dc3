package handler

import (
	"net/http"

	goversion "github.com/caarlos0/go-version"
	"github.com/gin-gonic/gin"
)

type HealthHandler struct {
	version goversion.Info
}

func NewHealthHandler(version goversion.Info) *HealthHandler {
	return &HealthHandler{version: version}
}

type HealthResponse struct {
	Status    string `json:"status"`
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildDate string `json:"build_date"`
	GoVersion string `json:"go_version"`
}

// Health reports liveness and build information
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:    "ok",
		Version:   h.version.GitVersion,
		Commit:    h.version.GitCommit,
		BuildDate: h.version.BuildDate,
		GoVersion: h.version.GoVersion,
	})
}
