// Package http implements the JSON API handlers of the tabinsight service.
// Handlers stay thin: they decode and validate the request body, call one
// service method and write the response envelope.
//
// # Envelope
//
// Every analysis response has the same shape:
//
//	{"status": "success", "data": ...}
//	{"status": "error",   "message": "..."}
//	{"status": "exists",  "message": "..."}
//
// Validation and parse failures answer 400, computation failures 500 and a
// save that would overwrite an existing file answers 200 with "exists".
//
// # Handler Structure
//
// Each handler follows this pattern:
//
//	func (h *AnalysisHandler) Descriptive(w http.ResponseWriter, r *http.Request) {
//	    var req columnsRequest
//	    if !h.bind(w, r, &req) {
//	        return
//	    }
//	    result, err := h.service.Descriptive(r.Context(), req.Filename, req.Columns)
//	    h.reply(w, r, result, err)
//	}
//
// Handlers depend on the service interfaces in interfaces.go so tests can
// substitute testify mocks.
package http
