package model

type UploadedImage struct {
	URL      string `json:"url"`
	PublicID string `json:"publicId"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	Format   string `json:"format"`
	Bytes    int64  `json:"bytes"`
}

// BatchUploadItem - resultado individual do upload em lote. O lote
// inteiro é reportado como falho quando qualquer item falha, mas o
// chamador recebe o desfecho de cada imagem.
type BatchUploadItem struct {
	Index    int            `json:"index"`
	FileName string         `json:"fileName"`
	Success  bool           `json:"success"`
	Image    *UploadedImage `json:"image,omitempty"`
	Error    string         `json:"error,omitempty"`
}

type BatchUploadData struct {
	Images []BatchUploadItem `json:"images"`
	Count  int               `json:"count"`
	Failed int               `json:"failed"`
}

type UploadStatusData struct {
	MediaConfigured  bool              `json:"media_configured"`
	CloudName        string            `json:"cloud_name"`
	MaxFileSize      string            `json:"max_file_size"`
	SupportedFormats []string          `json:"supported_formats"`
	Endpoints        map[string]string `json:"endpoints"`
	Status           string            `json:"status"`
}
