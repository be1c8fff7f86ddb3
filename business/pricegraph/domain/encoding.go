package domain

import (
	"fmt"
	"math/big"
)

// ElementStride is the fixed byte width of one encoded order record.
const ElementStride = 114

// Validity is the inclusive batch-id window an order is active for.
type Validity struct {
	From BatchID
	To   BatchID
}

// Contains reports whether batch lies within [From, To].
func (v Validity) Contains(batch BatchID) bool {
	return batch >= v.From && batch <= v.To
}

// BatchID identifies a discrete auction interval.
type BatchID uint32

// PriceFraction is an order's limit price expressed as buy-atoms over
// sell-atoms, before the fee is applied.
type PriceFraction struct {
	Numerator   *big.Int
	Denominator *big.Int
}

// Element is one decoded order record straight off the wire, before
// validity-window filtering or balance aggregation.
type Element struct {
	Owner               UserID
	Balance             *big.Int // owner's on-chain sell-token balance, as of this record
	Pair                TokenPair
	Valid               Validity
	Price               PriceFraction
	RemainingSellAmount *big.Int
	OrderID             OrderID
}

// DecodeError reports a failure in the wire-format decoder, carrying the
// offending record's byte offset per spec.md's error-propagation rule.
type DecodeError struct {
	Code   string // MalformedEncoding or InvalidOrder
	Offset int
	Detail string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s at offset %d: %s", e.Code, e.Offset, e.Detail)
}

// DecodeElements parses a byte sequence whose length must be a multiple of
// ElementStride into the ordered list of decoded records. It does not
// perform validity-window filtering or balance reconciliation - that is
// Orderbook's job (domain/orderbook.go), since it requires a batch id.
func DecodeElements(data []byte) ([]Element, error) {
	if len(data)%ElementStride != 0 {
		return nil, &DecodeError{
			Code:   "MalformedEncoding",
			Offset: 0,
			Detail: fmt.Sprintf("byte length %d is not a multiple of %d", len(data), ElementStride),
		}
	}

	count := len(data) / ElementStride
	elements := make([]Element, 0, count)
	for i := 0; i < count; i++ {
		offset := i * ElementStride
		chunk := data[offset : offset+ElementStride]

		el, err := decodeOne(chunk, offset)
		if err != nil {
			return nil, err
		}
		elements = append(elements, *el)
	}
	return elements, nil
}

func decodeOne(chunk []byte, offset int) (*Element, error) {
	var owner UserID
	copy(owner[:], chunk[0:20])

	balance := new(big.Int).SetBytes(chunk[20:52]) // big-endian, per spec's explicit exception

	buyToken := TokenID(readUint16LE(chunk[52:54]))
	sellToken := TokenID(readUint16LE(chunk[54:56]))

	validFrom := BatchID(readUint32LE(chunk[56:60]))
	validUntil := BatchID(readUint32LE(chunk[60:64]))

	numerator := readUint128LE(chunk[64:80])
	denominator := readUint128LE(chunk[80:96])
	remaining := readUint128LE(chunk[96:112])

	orderID := OrderID(readUint16LE(chunk[112:114]))

	if buyToken == sellToken {
		return nil, &DecodeError{Code: "InvalidOrder", Offset: offset, Detail: "buy-token equals sell-token"}
	}
	if denominator.Sign() == 0 {
		return nil, &DecodeError{Code: "InvalidOrder", Offset: offset, Detail: "denominator is zero"}
	}
	if validUntil < validFrom {
		return nil, &DecodeError{Code: "InvalidOrder", Offset: offset, Detail: "valid-until precedes valid-from"}
	}

	return &Element{
		Owner:               owner,
		Balance:             balance,
		Pair:                TokenPair{Sell: sellToken, Buy: buyToken},
		Valid:               Validity{From: validFrom, To: validUntil},
		Price:               PriceFraction{Numerator: numerator, Denominator: denominator},
		RemainingSellAmount: remaining,
		OrderID:             orderID,
	}, nil
}

func readUint16LE(b []byte) uint16 {
	return uint16(b[0]) | uint16(b[1])<<8
}

func readUint32LE(b []byte) uint32 {
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}

// readUint128LE reverses a little-endian 16-byte field into big-endian
// order so big.Int.SetBytes (which expects big-endian) reads it correctly.
func readUint128LE(b []byte) *big.Int {
	rev := make([]byte, len(b))
	for i, v := range b {
		rev[len(b)-1-i] = v
	}
	return new(big.Int).SetBytes(rev)
}

// IsUnbounded reports whether a price fraction uses the maximum
// representable numerator or denominator, the wire format's sentinel for
// "this order has no effective amount limit beyond the owner's balance".
func (p PriceFraction) IsUnbounded() bool {
	return p.Numerator.Cmp(maxUint128) == 0 || p.Denominator.Cmp(maxUint128) == 0
}

var maxUint128 = func() *big.Int {
	v := new(big.Int).Lsh(big.NewInt(1), 128)
	return v.Sub(v, big.NewInt(1))
}()
