package fileio

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/apache/arrow-go/v18/parquet"
	"github.com/apache/arrow-go/v18/parquet/file"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"
	"github.com/leapstack-labs/leapxfer/pkg/core"
	"github.com/leapstack-labs/leapxfer/pkg/frame"
)

func decodeParquet(r source, _ codecOptions) (*frame.Frame, error) {
	pf, err := file.NewParquetReader(r)
	if err != nil {
		return nil, err
	}
	defer func() { _ = pf.Close() }()

	fr, err := pqarrow.NewFileReader(pf, pqarrow.ArrowReadProperties{}, memory.DefaultAllocator)
	if err != nil {
		return nil, err
	}
	tbl, err := fr.ReadTable(context.Background())
	if err != nil {
		return nil, err
	}
	defer tbl.Release()

	series := make([]*frame.Series, 0, tbl.NumCols())
	names := make([]string, tbl.NumCols())
	for i := range names {
		names[i] = tbl.Column(i).Name()
	}
	names = frame.UniqueNames(names)

	var categories []string
	for i := range names {
		col := tbl.Column(i)
		values := make([]any, 0, tbl.NumRows())
		for _, chunk := range col.Data().Chunks() {
			for j := range chunk.Len() {
				values = append(values, arrowValue(chunk, j))
			}
		}
		series = append(series, frame.FromValues(names[i], values))
		if isStringDictionary(col.DataType()) {
			categories = append(categories, names[i])
		}
	}

	f, err := frame.New(series...)
	if err != nil {
		return nil, err
	}
	for _, name := range categories {
		if err := f.AsCategory(name); err != nil {
			return nil, err
		}
	}
	return f, nil
}

func isStringDictionary(dt arrow.DataType) bool {
	d, ok := dt.(*arrow.DictionaryType)
	if !ok {
		return false
	}
	switch d.ValueType.ID() {
	case arrow.STRING, arrow.LARGE_STRING:
		return true
	}
	return false
}

func arrowValue(arr arrow.Array, i int) any {
	if arr.IsNull(i) {
		return nil
	}
	switch a := arr.(type) {
	case *array.Int64:
		return a.Value(i)
	case *array.Int32:
		return int64(a.Value(i))
	case *array.Int16:
		return int64(a.Value(i))
	case *array.Int8:
		return int64(a.Value(i))
	case *array.Uint8:
		return int64(a.Value(i))
	case *array.Uint16:
		return int64(a.Value(i))
	case *array.Uint32:
		return int64(a.Value(i))
	case *array.Float64:
		return a.Value(i)
	case *array.Float32:
		return float64(a.Value(i))
	case *array.Boolean:
		return a.Value(i)
	case *array.String:
		return a.Value(i)
	case *array.LargeString:
		return a.Value(i)
	case *array.Timestamp:
		unit := a.DataType().(*arrow.TimestampType).Unit
		return a.Value(i).ToTime(unit)
	case *array.Date32:
		return a.Value(i).ToTime()
	case *array.Dictionary:
		return arrowValue(a.Dictionary(), a.GetValueIndex(i))
	default:
		return arr.ValueStr(i)
	}
}

func arrowType(k core.Kind) arrow.DataType {
	switch k {
	case core.KindInt:
		return arrow.PrimitiveTypes.Int64
	case core.KindFloat:
		return arrow.PrimitiveTypes.Float64
	case core.KindBool:
		return arrow.FixedWidthTypes.Boolean
	case core.KindTimestamp:
		return &arrow.TimestampType{Unit: arrow.Microsecond, TimeZone: "UTC"}
	case core.KindCategory:
		return &arrow.DictionaryType{IndexType: arrow.PrimitiveTypes.Int32, ValueType: arrow.BinaryTypes.String}
	default:
		return arrow.BinaryTypes.String
	}
}

// encodeParquet writes the frame as a single row group. The arrow schema
// is stored alongside so category columns read back as dictionaries.
func encodeParquet(w io.Writer, f *frame.Frame, _ codecOptions) error {
	fields := make([]arrow.Field, f.Width())
	for i, s := range f.Series() {
		fields[i] = arrow.Field{Name: s.Name, Type: arrowType(s.Kind), Nullable: true}
	}
	schema := arrow.NewSchema(fields, nil)

	b := array.NewRecordBuilder(memory.DefaultAllocator, schema)
	defer b.Release()

	for i, s := range f.Series() {
		if err := appendSeries(b.Field(i), s); err != nil {
			return fmt.Errorf("column %q: %w", s.Name, err)
		}
	}
	rec := b.NewRecord()
	defer rec.Release()

	fw, err := pqarrow.NewFileWriter(schema, w, parquet.NewWriterProperties(),
		pqarrow.NewArrowWriterProperties(pqarrow.WithStoreSchema()))
	if err != nil {
		return err
	}
	if err := fw.Write(rec); err != nil {
		_ = fw.Close()
		return err
	}
	return fw.Close()
}

func appendSeries(b array.Builder, s *frame.Series) error {
	for _, v := range s.Values {
		if v == nil {
			b.AppendNull()
			continue
		}
		switch bb := b.(type) {
		case *array.Int64Builder:
			bb.Append(v.(int64))
		case *array.Float64Builder:
			bb.Append(v.(float64))
		case *array.BooleanBuilder:
			bb.Append(v.(bool))
		case *array.TimestampBuilder:
			bb.Append(arrow.Timestamp(v.(time.Time).UnixMicro()))
		case *array.StringBuilder:
			bb.Append(frame.FormatValue(v))
		case *array.BinaryDictionaryBuilder:
			if err := bb.AppendString(frame.FormatValue(v)); err != nil {
				return err
			}
		default:
			return fmt.Errorf("unsupported builder %T", b)
		}
	}
	return nil
}
