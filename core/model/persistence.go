package model

import (
	"encoding/gob"
	"io"
	"os"

	"github.com/wmvanvliet/golem/pkg/errors"
)

// SaveNode は学習済みノードをファイルに保存する
//
// パラメータ:
//   - node: 保存するノード（BaseNodeを埋め込んだ構造体）
//   - filename: 保存先のファイルパス
//
// 使用例:
//
//	z := preprocessing.NewZScore()
//	// ... 学習 ...
//	err := model.SaveNode(z, "zscore.gob")
func SaveNode(node any, filename string) (err error) {
	file, err := os.Create(filename)
	if err != nil {
		return errors.NewIOError("save node", filename, err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = errors.NewIOError("save node", filename, cerr)
		}
	}()

	if err := gob.NewEncoder(file).Encode(node); err != nil {
		return errors.NewIOError("save node", filename, err)
	}
	return nil
}

// LoadNode はファイルからノードを読み込む
//
// node には読み込み先のポインタを渡す。
func LoadNode(node any, filename string) error {
	file, err := os.Open(filename)
	if err != nil {
		return errors.NewIOError("load node", filename, err)
	}
	defer file.Close()

	if err := gob.NewDecoder(file).Decode(node); err != nil {
		return errors.NewIOError("load node", filename, err)
	}
	return nil
}

// SaveNodeToWriter はノードをio.Writerに保存する
func SaveNodeToWriter(node any, w io.Writer) error {
	if err := gob.NewEncoder(w).Encode(node); err != nil {
		return errors.NewIOError("save node", "", err)
	}
	return nil
}

// LoadNodeFromReader はio.Readerからノードを読み込む
func LoadNodeFromReader(node any, r io.Reader) error {
	if err := gob.NewDecoder(r).Decode(node); err != nil {
		return errors.NewIOError("load node", "", err)
	}
	return nil
}
