package model

import (
	"encoding/json"
	"maps"
	"slices"

	"github.com/wmvanvliet/golem/pkg/errors"
)

// ParamsVersion は NodeParams の書式バージョン
const ParamsVersion = "1"

// NodeParams は学習済みノードのパラメータを表す構造体（シリアライゼーション用）
type NodeParams struct {
	// NodeType はノードの種類（ZScore等）
	NodeType string `json:"node_type"`

	// Version は書式のバージョン（互換性チェック用）
	Version string `json:"version"`

	// Features は特徴量の名前（オプション）
	Features []string `json:"features,omitempty"`

	// Vectors は特徴量ごとのパラメータ（平均、標準偏差等）
	Vectors map[string][]float64 `json:"vectors"`

	// Trained はノードが学習済みかどうか
	Trained bool `json:"trained"`
}

// ToJSON はNodeParamsをJSON形式にシリアライズ
func (p *NodeParams) ToJSON() ([]byte, error) {
	return json.MarshalIndent(p, "", "  ")
}

// FromJSON はJSON形式からNodeParamsをデシリアライズ
func (p *NodeParams) FromJSON(data []byte) error {
	if err := json.Unmarshal(data, p); err != nil {
		return errors.Wrap(err, "decoding node params")
	}
	return p.Validate()
}

// Validate はNodeParamsの妥当性を検証
func (p *NodeParams) Validate() error {
	if p.NodeType == "" {
		return errors.NewValidationError("node_type", "is required", p.NodeType)
	}
	if p.Version != ParamsVersion {
		return errors.NewValidationError("version", "unsupported params version", p.Version)
	}
	if !p.Trained && len(p.Vectors) > 0 {
		return errors.NewValidationError("vectors", "untrained node must not carry parameters", len(p.Vectors))
	}
	// 全てのベクトルは同じ長さでなければならない
	width := -1
	for _, name := range slices.Sorted(maps.Keys(p.Vectors)) {
		v := p.Vectors[name]
		if width >= 0 && len(v) != width {
			return errors.NewValidationError("vectors."+name, "length differs from the other vectors", len(v))
		}
		width = len(v)
	}
	if p.Features != nil && width >= 0 && len(p.Features) != width {
		return errors.NewValidationError("features", "length must match the parameter vectors", len(p.Features))
	}
	return nil
}

// Clone はNodeParamsのディープコピーを作成
func (p *NodeParams) Clone() *NodeParams {
	clone := &NodeParams{
		NodeType: p.NodeType,
		Version:  p.Version,
		Features: slices.Clone(p.Features),
		Vectors:  make(map[string][]float64, len(p.Vectors)),
		Trained:  p.Trained,
	}
	for k, v := range p.Vectors {
		clone.Vectors[k] = slices.Clone(v)
	}
	return clone
}
