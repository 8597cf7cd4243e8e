package entity

import "encoding/base64"

// Image はアップロードされた画像です。所有者は呼び出し元で、保存はされません。
type Image struct {
	Data     []byte // 画像のバイト列
	MIMEType string // 例: "image/jpeg"
}

// Base64 は画像データを標準のBase64でエンコードした文字列を返します。
func (i Image) Base64() string {
	return base64.StdEncoding.EncodeToString(i.Data)
}
