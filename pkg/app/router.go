package app

import (
	"context"
	"encoding/json"
)

type Response struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
	Data any    `json:"data,omitempty"`
}

// Dispatch routes a host call to the current engine and returns a JSON envelope.
func (r *Runtime) Dispatch(ctx context.Context, method string, paramsJson string) string {
	engine := r.Engine()
	if engine == nil {
		return jsonResp(503, "Engine not ready", nil)
	}
	svc := engine.Service

	var (
		result any
		err    error
	)
	switch method {
	case "forex.info":
		result = svc.Info()
	case "forex.data":
		result, err = svc.GenerateSeriesJSON(ctx, paramsJson)
	case "forex.analyze":
		result, err = svc.AnalyzeJSON(ctx, paramsJson)
	default:
		return jsonResp(404, "Method not found", nil)
	}
	if err != nil {
		return jsonResp(400, err.Error(), nil)
	}
	return jsonResp(200, "Ok", result)
}

func jsonResp(code int, msg string, data any) string {
	b, err := json.Marshal(Response{Code: code, Msg: msg, Data: data})
	if err != nil {
		return `{"code":500,"msg":"encode response failed"}`
	}
	return string(b)
}
