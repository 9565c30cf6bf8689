package model

import (
	"encoding/json"
	"io"
	"os"

	"github.com/YuminosukeSato/housepriceai/pkg/errors"
)

// FormatVersion は保存形式のバージョン（互換性チェック用）
const FormatVersion = "1"

// Envelope は保存されたモデルの外枠
type Envelope struct {
	// ModelType はモデルの種類（例: "OLS"）
	ModelType string `json:"model_type"`

	// Version は保存形式のバージョン
	Version string `json:"version"`

	// IsFitted は保存時に学習済みだったかどうか
	IsFitted bool `json:"is_fitted"`

	// Payload はモデル固有の内容
	Payload json.RawMessage `json:"payload"`
}

// Write はモデルを Envelope に包んで JSON として w に書き出す
//
// 使用例:
//
//	err := model.Write(f, "OLS", true, bundle)
func Write(w io.Writer, modelType string, fitted bool, payload interface{}) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return errors.Wrap(err, "failed to encode model payload")
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(Envelope{
		ModelType: modelType,
		Version:   FormatVersion,
		IsFitted:  fitted,
		Payload:   raw,
	}); err != nil {
		return errors.Wrap(err, "failed to encode model")
	}
	return nil
}

// Read は r から Envelope を読み込み、Payload を payload にデコードする
//
// モデルの種類やバージョンが一致しない場合、未学習のモデルが保存されていた場合はエラーを返す。
func Read(r io.Reader, modelType string, payload interface{}) error {
	var env Envelope
	if err := json.NewDecoder(r).Decode(&env); err != nil {
		return errors.Wrap(err, "failed to decode model")
	}
	if env.ModelType != modelType {
		return errors.NewValueError("model.Read", "unexpected model type "+env.ModelType+", want "+modelType)
	}
	if env.Version != FormatVersion {
		return errors.NewValueError("model.Read", "unsupported format version "+env.Version)
	}
	if !env.IsFitted {
		return errors.NewNotFittedError(modelType, "Read")
	}
	if err := json.Unmarshal(env.Payload, payload); err != nil {
		return errors.Wrap(err, "failed to decode model payload")
	}
	return nil
}

// SaveFile はモデルをファイルに保存する
func SaveFile(filename, modelType string, fitted bool, payload interface{}) error {
	file, err := os.Create(filename)
	if err != nil {
		return errors.Wrapf(err, "failed to create %s", filename)
	}
	defer file.Close()
	return Write(file, modelType, fitted, payload)
}

// LoadFile はファイルからモデルを読み込む
func LoadFile(filename, modelType string, payload interface{}) error {
	file, err := os.Open(filename)
	if err != nil {
		return errors.Wrapf(err, "failed to open %s", filename)
	}
	defer file.Close()
	return Read(file, modelType, payload)
}
