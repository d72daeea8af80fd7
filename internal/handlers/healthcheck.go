package handlers

import (
	"net/http"

	"github.com/BNsrujan/Youtube-Clone/internal/handlers/render"
)

func handleHealthcheck() http.Handler {
	type response struct {
		Status string `json:"status"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, response{Status: "ok"}, "OK")
	})
}
