package bson

import (
	"encoding/binary"
	"math"
)

func readI32LE(b []byte) int32       { return int32(binary.LittleEndian.Uint32(b)) }
func readI64LE(b []byte) int64       { return int64(binary.LittleEndian.Uint64(b)) }
func readF64LE(b []byte) float64     { return math.Float64frombits(binary.LittleEndian.Uint64(b)) }
func writeI32LE(b []byte, v int32)   { binary.LittleEndian.PutUint32(b, uint32(v)) }
func writeI64LE(b []byte, v int64)   { binary.LittleEndian.PutUint64(b, uint64(v)) }
func writeF64LE(b []byte, v float64) { binary.LittleEndian.PutUint64(b, math.Float64bits(v)) }
