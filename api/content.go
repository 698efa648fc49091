package api

import (
	"net/http"

	"github.com/xceptionalbae23/word-of-hope-ministries/internal/content"
)

type ContentHandler struct {
	catalog *content.Catalog
}

func NewContentHandler(catalog *content.Catalog) *ContentHandler {
	return &ContentHandler{catalog: catalog}
}

func (h *ContentHandler) MinistryInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.catalog.Ministry, http.StatusOK)
}

func (h *ContentHandler) Sermons(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.catalog.Sermons, http.StatusOK)
}

func (h *ContentHandler) BlogPosts(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.catalog.BlogPosts, http.StatusOK)
}
