package api

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gorilla/mux"
	"github.com/skip2/go-qrcode"
)

const qrSize = 256

type QRGenerator interface {
	Generate(orderID string) ([]byte, error)
}

// TrackingQR encodes a link to the customer tracking page of an order.
type TrackingQR struct {
	BaseURL string
}

func (g TrackingQR) URL(orderID string) string {
	return strings.TrimRight(g.BaseURL, "/") + "/" + url.PathEscape(orderID)
}

func (g TrackingQR) Generate(orderID string) ([]byte, error) {
	return qrcode.Encode(g.URL(orderID), qrcode.Medium, qrSize)
}

func (h *Handler) orderQRCode(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if _, err := h.Orders.Get(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}

	png, err := h.QR.Generate(id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Write(png)
}
