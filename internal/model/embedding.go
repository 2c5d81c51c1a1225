package model

type CreateEmbeddingResponse struct {
	Success   bool   `json:"success"`
	ID        int64  `json:"id"`
	Codigo    string `json:"codigo"`
	Model     string `json:"model"`
	Dimension int    `json:"dimension"`
}

type SimilarAtendimento struct {
	Codigo    string  `json:"codigo"`
	Descricao string  `json:"descricao"`
	Distancia float64 `json:"distancia"`
}

type SimilarSearchResponse struct {
	Success bool                 `json:"success"`
	Count   int                  `json:"count"`
	Data    []SimilarAtendimento `json:"data"`
}
