package dataset

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"encoding/gob"
	"io"
	"os"

	"github.com/ulikunitz/xz"
	"gonum.org/v1/gonum/mat"

	"github.com/wmvanvliet/golem/pkg/errors"
	"github.com/wmvanvliet/golem/pkg/log"
)

const (
	containerMagic   = "GOLDAT"
	containerVersion = byte(1)
	sectionEnd       = "end"

	// maxSectionSize bounds a single length-prefixed record.
	maxSectionSize = 1 << 30
)

func init() {
	gob.Register([]any{})
	gob.Register(map[string]any{})
	gob.Register(map[string]string{})
	gob.Register(map[string]float64{})
	gob.Register(map[string]int{})
}

type matrixRecord struct {
	Rows, Cols int
	Data       []float64
}

type labelsRecord struct {
	Present bool
	Labels  []string
}

type shapeRecord struct {
	Shape []int
}

type extraRecord struct {
	Values map[string]any
}

func toRecord(b block) matrixRecord {
	rec := matrixRecord{Rows: b.rows, Cols: b.cols}
	if b.rows > 0 {
		rec.Data = make([]float64, 0, b.rows*b.cols)
		for i := 0; i < b.rows; i++ {
			rec.Data = append(rec.Data, b.row(i)...)
		}
	}
	return rec
}

func fromRecord(rec matrixRecord) (block, error) {
	switch {
	case rec.Rows < 0 || rec.Cols < 0:
		return block{}, errors.Wrapf(errors.ErrCorruptContainer, "negative matrix dims %dx%d", rec.Rows, rec.Cols)
	case rec.Rows == 0:
		return block{cols: rec.Cols}, nil
	case rec.Cols == 0 || len(rec.Data) != rec.Rows*rec.Cols:
		return block{}, errors.Wrapf(errors.ErrCorruptContainer,
			"matrix %dx%d holds %d values", rec.Rows, rec.Cols, len(rec.Data))
	}
	return block{m: mat.NewDense(rec.Rows, rec.Cols, rec.Data), rows: rec.Rows, cols: rec.Cols}, nil
}

// Save writes d to w: the magic "GOLDAT", a version byte and an xz stream of
// named gob sections.
func (d *Dataset) Save(w io.Writer) error {
	if err := d.save(w); err != nil {
		return errors.NewIOError("save", "", err)
	}
	return nil
}

func (d *Dataset) save(w io.Writer) error {
	if _, err := io.WriteString(w, containerMagic); err != nil {
		return err
	}
	if _, err := w.Write([]byte{containerVersion}); err != nil {
		return err
	}
	xw, err := xz.NewWriter(w)
	if err != nil {
		return err
	}
	sections := []struct {
		name string
		v    any
	}{
		{FieldXs, toRecord(d.xs)},
		{FieldYs, toRecord(d.ys)},
		{FieldIDs, toRecord(d.ids)},
		{FieldFeatLab, labelsRecord{Present: d.featLab != nil, Labels: d.featLab}},
		{FieldClLab, labelsRecord{Present: true, Labels: d.clLab}},
		{FieldFeatShape, shapeRecord{Shape: d.featShape}},
		{FieldExtra, extraRecord{Values: d.extra}},
	}
	for _, s := range sections {
		if err = writeString(xw, s.name); err != nil {
			return err
		}
		if err = writeGob(xw, s.v); err != nil {
			return errors.Wrapf(err, "section %s", s.name)
		}
	}
	if err = writeString(xw, sectionEnd); err != nil {
		return err
	}
	return xw.Close()
}

// SaveFile writes d to path, replacing any existing file.
func (d *Dataset) SaveFile(path string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return errors.NewIOError("save", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = errors.NewIOError("save", path, cerr)
		}
	}()

	bw := bufio.NewWriter(f)
	if err = d.save(bw); err != nil {
		return errors.NewIOError("save", path, err)
	}
	if err = bw.Flush(); err != nil {
		return errors.NewIOError("save", path, err)
	}
	log.GetLogger().Debug("dataset saved",
		log.OperationKey, log.OperationSave,
		log.PathKey, path,
		log.SamplesKey, d.NInstances(),
		log.FingerprintKey, d.Fingerprint().String(),
	)
	return nil
}

// Load reads a Dataset written by Save. The decoded fields pass the same
// validation as New. A section name this version does not know yields a
// *errors.ContractError; every other failure is an *errors.IOError.
func Load(r io.Reader) (*Dataset, error) {
	d, err := load(r)
	if err != nil {
		return nil, asLoadError("", err)
	}
	return d, nil
}

// LoadFile reads a Dataset from path.
func LoadFile(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.NewIOError("load", path, err)
	}
	defer f.Close()

	d, err := load(bufio.NewReader(f))
	if err != nil {
		return nil, asLoadError(path, err)
	}
	log.GetLogger().Debug("dataset loaded",
		log.OperationKey, log.OperationLoad,
		log.PathKey, path,
		log.SamplesKey, d.NInstances(),
	)
	return d, nil
}

// asLoadError passes data contract errors through and wraps the rest.
func asLoadError(path string, err error) error {
	var (
		contractErr   *errors.ContractError
		validationErr *errors.ValidationError
		integrityErr  *errors.IntegrityError
		dimensionErr  *errors.DimensionError
		typeErr       *errors.TypeError
	)
	if errors.As(err, &contractErr) || errors.As(err, &validationErr) ||
		errors.As(err, &integrityErr) || errors.As(err, &dimensionErr) ||
		errors.As(err, &typeErr) {
		return err
	}
	return errors.NewIOError("load", path, err)
}

func load(r io.Reader) (*Dataset, error) {
	header := make([]byte, len(containerMagic)+1)
	if _, err := io.ReadFull(r, header); err != nil {
		return nil, errors.Wrap(errors.ErrCorruptContainer, err.Error())
	}
	if string(header[:len(containerMagic)]) != containerMagic {
		return nil, errors.Wrapf(errors.ErrCorruptContainer, "bad magic %q", header[:len(containerMagic)])
	}
	if v := header[len(containerMagic)]; v != containerVersion {
		return nil, errors.Wrapf(errors.ErrCorruptContainer, "unsupported version %d", v)
	}
	xr, err := xz.NewReader(r)
	if err != nil {
		return nil, err
	}

	var (
		xs, ys, ids            *block
		featLab, clLab         labelsRecord
		shape                  shapeRecord
		extra                  extraRecord
		seenFeatLab, seenClLab bool
	)
	for {
		name, err := readString(xr)
		if err != nil {
			return nil, errors.Wrap(err, "reading section name")
		}
		if name == sectionEnd {
			break
		}
		switch name {
		case FieldXs, FieldYs, FieldIDs:
			var rec matrixRecord
			if err = readGob(xr, &rec); err != nil {
				return nil, errors.Wrapf(err, "section %s", name)
			}
			b, err := fromRecord(rec)
			if err != nil {
				return nil, errors.Wrapf(err, "section %s", name)
			}
			switch name {
			case FieldXs:
				xs = &b
			case FieldYs:
				ys = &b
			default:
				ids = &b
			}
		case FieldFeatLab:
			err = readGob(xr, &featLab)
			seenFeatLab = true
		case FieldClLab:
			err = readGob(xr, &clLab)
			seenClLab = true
		case FieldFeatShape:
			err = readGob(xr, &shape)
		case FieldExtra:
			err = readGob(xr, &extra)
		default:
			return nil, errors.NewContractError("Load", name)
		}
		if err != nil {
			return nil, errors.Wrapf(err, "section %s", name)
		}
	}
	if xs == nil || ys == nil || ids == nil {
		return nil, errors.Wrap(errors.ErrCorruptContainer, "missing matrix section")
	}

	opts := []Option{withBlocks(*xs, *ys, *ids), WithFeatureShape(shape.Shape), WithExtra(extra.Values)}
	if seenFeatLab && featLab.Present {
		opts = append(opts, WithFeatureLabels(nonNil(featLab.Labels)))
	}
	if seenClLab {
		opts = append(opts, WithClassLabels(nonNil(clLab.Labels)))
	}
	return build("Load", nil, opts)
}

// gob decodes empty slices as nil.
func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func writeString(w io.Writer, s string) error {
	return writeBytes(w, []byte(s))
}

func readString(r io.Reader) (string, error) {
	data, err := readBytes(r)
	return string(data), err
}

func writeBytes(w io.Writer, b []byte) error {
	if err := binary.Write(w, binary.LittleEndian, int32(len(b))); err != nil {
		return err
	}
	_, err := w.Write(b)
	return err
}

func readBytes(r io.Reader) ([]byte, error) {
	var length int32
	if err := binary.Read(r, binary.LittleEndian, &length); err != nil {
		return nil, err
	}
	if length < 0 || length > maxSectionSize {
		return nil, errors.Wrapf(errors.ErrCorruptContainer, "record length %d", length)
	}
	data := make([]byte, length)
	if _, err := io.ReadFull(r, data); err != nil {
		return nil, err
	}
	return data, nil
}

func writeGob(w io.Writer, v any) error {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(v); err != nil {
		return err
	}
	if buf.Len() > maxSectionSize {
		return errors.Newf("section of %d bytes exceeds the container limit", buf.Len())
	}
	return writeBytes(w, buf.Bytes())
}

func readGob(r io.Reader, v any) error {
	data, err := readBytes(r)
	if err != nil {
		return err
	}
	return gob.NewDecoder(bytes.NewReader(data)).Decode(v)
}
