package core

import (
	"github.com/mus-format/mus-go"
	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/varint"
)

// MUS serializers for the types kept in binary stores.
var (
	IDMUS           = idMUS{}
	EmbeddingMUS    = embeddingMUS{}
	LabelsMUS       = labelsMUS{}
	ResultRecordMUS = resultRecordMUS{}
)

var (
	_ mus.Serializer[ID]           = IDMUS
	_ mus.Serializer[[]float32]    = EmbeddingMUS
	_ mus.Serializer[Labels]       = LabelsMUS
	_ mus.Serializer[ResultRecord] = ResultRecordMUS
)

type idMUS struct{}

func (s idMUS) Marshal(v ID, bs []byte) (n int) {
	return varint.Uint64.Marshal(uint64(v), bs)
}

func (s idMUS) Unmarshal(bs []byte) (v ID, n int, err error) {
	u, n, err := varint.Uint64.Unmarshal(bs)
	return ID(u), n, err
}

func (s idMUS) Size(v ID) (size int) {
	return varint.Uint64.Size(uint64(v))
}

func (s idMUS) Skip(bs []byte) (n int, err error) {
	return varint.Uint64.Skip(bs)
}

// embeddingMUS encodes a vector as its length followed by the components.
type embeddingMUS struct{}

func (s embeddingMUS) Marshal(v []float32, bs []byte) (n int) {
	n = varint.PositiveInt.Marshal(len(v), bs)
	for _, f := range v {
		n += varint.Float32.Marshal(f, bs[n:])
	}
	return
}

func (s embeddingMUS) Unmarshal(bs []byte) (v []float32, n int, err error) {
	length, n, err := varint.PositiveInt.Unmarshal(bs)
	if err != nil {
		return
	}
	if length < 0 || length > len(bs)-n {
		err = ErrInvalidLength
		return
	}
	v = make([]float32, length)
	var n1 int
	for i := range v {
		v[i], n1, err = varint.Float32.Unmarshal(bs[n:])
		n += n1
		if err != nil {
			return
		}
	}
	return
}

func (s embeddingMUS) Size(v []float32) (size int) {
	size = varint.PositiveInt.Size(len(v))
	for _, f := range v {
		size += varint.Float32.Size(f)
	}
	return
}

func (s embeddingMUS) Skip(bs []byte) (n int, err error) {
	length, n, err := varint.PositiveInt.Unmarshal(bs)
	if err != nil {
		return
	}
	if length < 0 || length > len(bs)-n {
		err = ErrInvalidLength
		return
	}
	var n1 int
	for range length {
		n1, err = varint.Float32.Skip(bs[n:])
		n += n1
		if err != nil {
			return
		}
	}
	return
}

type labelsMUS struct{}

func (s labelsMUS) fields(v *Labels) []*string {
	return []*string{
		&v.Level1,
		&v.Level2,
		&v.Level3,
		&v.LeafContractCategory,
		&v.RootCause,
		&v.Effect,
		&v.MLLibrary,
		&v.ContractViolationLocation,
		&v.DetectionTechnique,
		&v.ReasonsForNotLabeling,
		&v.ReasonsForLabeling,
	}
}

func (s labelsMUS) Marshal(v Labels, bs []byte) (n int) {
	for _, f := range s.fields(&v) {
		n += ord.String.Marshal(*f, bs[n:])
	}
	return
}

func (s labelsMUS) Unmarshal(bs []byte) (v Labels, n int, err error) {
	var n1 int
	for _, f := range s.fields(&v) {
		*f, n1, err = ord.String.Unmarshal(bs[n:])
		n += n1
		if err != nil {
			return
		}
	}
	return
}

func (s labelsMUS) Size(v Labels) (size int) {
	for _, f := range s.fields(&v) {
		size += ord.String.Size(*f)
	}
	return
}

func (s labelsMUS) Skip(bs []byte) (n int, err error) {
	var n1 int
	for range len(s.fields(&Labels{})) {
		n1, err = ord.String.Skip(bs[n:])
		n += n1
		if err != nil {
			return
		}
	}
	return
}

type resultRecordMUS struct{}

func (s resultRecordMUS) Marshal(v ResultRecord, bs []byte) (n int) {
	n = IDMUS.Marshal(v.Id, bs)
	n += varint.Int.Marshal(v.Ordinal, bs[n:])
	n += ord.String.Marshal(v.PostURL, bs[n:])
	n += ord.String.Marshal(v.Title, bs[n:])
	n += ord.String.Marshal(v.Question, bs[n:])
	n += ord.String.Marshal(v.Answer, bs[n:])
	n += ord.String.Marshal(v.MLAPIName, bs[n:])
	n += EmbeddingMUS.Marshal(v.Embedding, bs[n:])
	n += varint.Int.Marshal(v.UsedLength, bs[n:])
	return n + LabelsMUS.Marshal(v.Label, bs[n:])
}

func (s resultRecordMUS) Unmarshal(bs []byte) (v ResultRecord, n int, err error) {
	v.Id, n, err = IDMUS.Unmarshal(bs)
	if err != nil {
		return
	}
	var n1 int
	v.Ordinal, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	for _, f := range []*string{&v.PostURL, &v.Title, &v.Question, &v.Answer, &v.MLAPIName} {
		*f, n1, err = ord.String.Unmarshal(bs[n:])
		n += n1
		if err != nil {
			return
		}
	}
	v.Embedding, n1, err = EmbeddingMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.UsedLength, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Label, n1, err = LabelsMUS.Unmarshal(bs[n:])
	n += n1
	return
}

func (s resultRecordMUS) Size(v ResultRecord) (size int) {
	size = IDMUS.Size(v.Id)
	size += varint.Int.Size(v.Ordinal)
	size += ord.String.Size(v.PostURL)
	size += ord.String.Size(v.Title)
	size += ord.String.Size(v.Question)
	size += ord.String.Size(v.Answer)
	size += ord.String.Size(v.MLAPIName)
	size += EmbeddingMUS.Size(v.Embedding)
	size += varint.Int.Size(v.UsedLength)
	return size + LabelsMUS.Size(v.Label)
}

func (s resultRecordMUS) Skip(bs []byte) (n int, err error) {
	n, err = IDMUS.Skip(bs)
	if err != nil {
		return
	}
	var n1 int
	n1, err = varint.Int.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	for range 5 {
		n1, err = ord.String.Skip(bs[n:])
		n += n1
		if err != nil {
			return
		}
	}
	n1, err = EmbeddingMUS.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = varint.Int.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = LabelsMUS.Skip(bs[n:])
	n += n1
	return
}
