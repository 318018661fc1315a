package crypto

import (
	"crypto/cipher"
	"errors"
	"fmt"
	"hash"

	"github.com/Benrnz/Confuzzle/pkg/wire"
)

// batchBytes is the preferred pad batch length, T in the spec (4096
// bytes). For AES (16-byte blocks) that's 256 blocks per batch.
const batchBytes = 4096

// ErrInvalidNonceLength is returned when a nonce's length falls outside
// [blockSize/2, blockSize].
var ErrInvalidNonceLength = errors.New("crypto: nonce length out of range")

// ErrNegativePosition is returned by Transform when asked to operate at
// a negative plaintext position.
var ErrNegativePosition = errors.New("crypto: position must be non-negative")

// CTR is a seekable, batch-cached CTR-mode keystream generator. It
// produces identical keystream bytes for a given (key, salt, nonce,
// position) regardless of access pattern: sequential write, sequential
// read, or random-access read all observe the same pad.
//
// CTR holds non-reentrant mutable state (the cached pad batch); it is
// not safe for concurrent use, matching the single-owner contract of
// the cipher stream that drives it.
type CTR struct {
	block          cipher.Block
	blockSize      int
	blocksPerBatch int
	ctrSeed        []byte // nonce prefix, zero-padded to blockSize
	iv             []byte // SHA-256(nonce||salt) tiled to blockSize; wire compat only, see NewCTR

	pad        []byte // cached keystream for [startBlock, endBlock)
	startBlock int64
	endBlock   int64
}

// NewCTR builds a keystream generator from a keyed block cipher and the
// nonce/salt pair recorded in the stream header. nonce must be between
// blockSize/2 and blockSize bytes (inclusive). newHash constructs the
// hash used to derive the IV (SHA-256 by default, via the cipher
// stream's CipherFactory).
//
// The IV computed here (SHA-256(nonce||salt), tiled to blockSize) is
// wire-format compatibility only: a raw per-block cipher.Block.Encrypt
// call, which is what CTR actually uses, has no IV concept and ignores
// it. It is still derived and stored so the derivation matches the
// reference format bit for bit if an implementation ever swaps in a
// true ECB-mode encryptor that does honour one.
func NewCTR(block cipher.Block, nonce, salt []byte, newHash func() hash.Hash) (*CTR, error) {
	blockSize := block.BlockSize()
	if len(nonce) < blockSize/2 || len(nonce) > blockSize {
		return nil, fmt.Errorf("%w: got %d, want [%d, %d]", ErrInvalidNonceLength, len(nonce), blockSize/2, blockSize)
	}

	h := newHash()
	h.Write(nonce)
	h.Write(salt)
	iv := make([]byte, blockSize)
	wire.Fill(iv, h.Sum(nil))

	prefixLen := len(nonce)
	if prefixLen > 8 {
		prefixLen = 8
	}
	ctrSeed := make([]byte, blockSize)
	copy(ctrSeed, nonce[:prefixLen])

	blocksPerBatch := batchBytes / blockSize
	if blocksPerBatch < 1 {
		blocksPerBatch = 1
	}

	return &CTR{
		block:          block,
		blockSize:      blockSize,
		blocksPerBatch: blocksPerBatch,
		ctrSeed:        ctrSeed,
		iv:             iv,
	}, nil
}

// BlockSize is B, the underlying cipher's block size in bytes.
func (c *CTR) BlockSize() int {
	return c.blockSize
}

// Transform XORs the keystream for [position, position+len(data)) into
// data in place. Calling Transform twice at the same position with the
// output of the first call is an involution: it restores the original
// bytes.
func (c *CTR) Transform(position int64, data []byte) error {
	if position < 0 {
		return ErrNegativePosition
	}

	batchLen := int64(c.blocksPerBatch * c.blockSize)
	offset := 0
	for offset < len(data) {
		blockNumber := (position + int64(offset)) / int64(c.blockSize)
		if !c.batchCovers(blockNumber) {
			c.fillBatch(blockNumber)
		}

		pos := position + int64(offset)
		xorIndex := int(pos % batchLen)
		xorCount := len(data) - offset
		if avail := int(batchLen) - xorIndex; xorCount > avail {
			xorCount = avail
		}

		for i := 0; i < xorCount; i++ {
			data[offset+i] ^= c.pad[xorIndex+i]
		}
		offset += xorCount
	}
	return nil
}

// batchCovers reports whether the cached pad batch already covers
// blockNumber. This is the corrected predicate from spec.md §4.4 / §9:
// startBlock <= blockNumber < endBlock (the reference implementation's
// narrower "blockNumber == startBlock" check just recomputes more
// often; it does not change any output byte).
func (c *CTR) batchCovers(blockNumber int64) bool {
	return c.pad != nil && c.startBlock <= blockNumber && blockNumber < c.endBlock
}

// fillBatch computes and caches the pad for the batch of blocksPerBatch
// counter blocks containing blockNumber.
func (c *CTR) fillBatch(blockNumber int64) {
	start := (blockNumber / int64(c.blocksPerBatch)) * int64(c.blocksPerBatch)

	plain := make([]byte, c.blocksPerBatch*c.blockSize)
	for i := 0; i < c.blocksPerBatch; i++ {
		cb := counterBlock(c.ctrSeed, uint64(start)+uint64(i)+1)
		copy(plain[i*c.blockSize:(i+1)*c.blockSize], cb)
	}

	pad := make([]byte, len(plain))
	for i := 0; i < c.blocksPerBatch; i++ {
		c.block.Encrypt(pad[i*c.blockSize:(i+1)*c.blockSize], plain[i*c.blockSize:(i+1)*c.blockSize])
	}

	c.pad = pad
	c.startBlock = start
	c.endBlock = start + int64(c.blocksPerBatch)
}

// counterBlock XORs the 1-based counter into a copy of seed, least
// significant byte at the last position and proceeding toward the
// front, stopping once the remaining counter value is zero. Counters
// wider than the block silently drop their high bits (spec.md §4.4
// edge case, undefined for files approaching 2^(8*blockSize) blocks).
func counterBlock(seed []byte, counter uint64) []byte {
	cb := append([]byte(nil), seed...)
	for i := len(cb) - 1; i >= 0 && counter > 0; i-- {
		cb[i] ^= byte(counter)
		counter >>= 8
	}
	return cb
}

// Close zeroes the cached pad buffer. The derived key itself lives in
// the KeyStretcher and the cipher.Block the caller constructed; neither
// is owned by CTR.
func (c *CTR) Close() {
	for i := range c.pad {
		c.pad[i] = 0
	}
	c.pad = nil
	c.startBlock, c.endBlock = 0, 0
}
