package server

// note that these are *not* the exprstore models; those are distinct and
// closer to the storage format they are in. Rather these are the models that
// are received from and sent to the client.

import "time"

type TokenRequest struct {
	APIKey string `json:"api_key"`
}

type TokenResponse struct {
	Token string `json:"token"`
}

type LibraryRequest struct {
	Name   string `json:"name"`
	Source string `json:"source"`
}

type LibraryResponse struct {
	ID      string    `json:"id"`
	Name    string    `json:"name"`
	Source  string    `json:"source"`
	Created time.Time `json:"created"`
}

type EnvironmentRequest struct {
	Name      string             `json:"name"`
	Variables map[string]float64 `json:"variables"`
	Libraries []string           `json:"libraries"`
}

type EnvironmentResponse struct {
	ID        string             `json:"id"`
	Name      string             `json:"name"`
	Variables map[string]float64 `json:"variables"`
	Updated   time.Time          `json:"updated"`
}

type EvalRequest struct {
	Expression string `json:"expression"`
}

type EvalResponse struct {
	Result    float64            `json:"result"`
	Variables map[string]float64 `json:"variables"`
}
