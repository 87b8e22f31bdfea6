package xhttp

import (
	"encoding/json"
)

const contentTypeJSON = "application/json; charset=utf-8"

func WriteJSON(ctx *RequestCtx, status int, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		ctx.Response.SetStatusCode(StatusInternalServerError)
		return
	}
	ctx.Response.Header.Set("Content-Type", contentTypeJSON)
	ctx.Response.SetStatusCode(status)
	ctx.Response.SetBodyRaw(b)
}

// WriteMessage writes the {"message": ...} body every error response uses.
func WriteMessage(ctx *RequestCtx, status int, msg string) {
	WriteJSON(ctx, status, map[string]string{"message": msg})
}

func WriteText(ctx *RequestCtx, status int, text string) {
	ctx.Response.Header.Set("Content-Type", "text/plain; charset=utf-8")
	ctx.Response.SetStatusCode(status)
	ctx.Response.SetBodyString(text)
}
