package vrf

import (
	"crypto/ecdsa"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/osse101/lotto/internal/domain"
)

// DeliveryDigest is the hash an external oracle signs when it delivers words:
// keccak256(uint256(requestId) || uint256(word_0) || ...)
func DeliveryDigest(requestID domain.RequestID, words []*big.Int) []byte {
	parts := make([][]byte, 0, len(words)+1)
	parts = append(parts, common.BigToHash(new(big.Int).SetUint64(uint64(requestID))).Bytes())
	for _, w := range words {
		if w == nil {
			w = new(big.Int)
		}
		parts = append(parts, common.BigToHash(w).Bytes())
	}
	return crypto.Keccak256(parts...)
}

// SignDelivery signs a delivery with the oracle key. The pool's coordinator
// address must be the address of key.
func SignDelivery(key *ecdsa.PrivateKey, requestID domain.RequestID, words []*big.Int) ([]byte, error) {
	sig, err := crypto.Sign(DeliveryDigest(requestID, words), key)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgSignDeliveryFailed, err)
	}
	return sig, nil
}

// RecoverDeliverer returns the address that signed the delivery. A malformed
// signature yields ErrInvalidDeliverySignature; a well formed signature over
// different words recovers some other address.
func RecoverDeliverer(requestID domain.RequestID, words []*big.Int, sig []byte) (common.Address, error) {
	if len(sig) != crypto.SignatureLength {
		return common.Address{}, fmt.Errorf("%w: want %d bytes, got %d", ErrInvalidDeliverySignature, crypto.SignatureLength, len(sig))
	}
	pub, err := crypto.SigToPub(DeliveryDigest(requestID, words), sig)
	if err != nil {
		return common.Address{}, fmt.Errorf("%w: %v", ErrInvalidDeliverySignature, err)
	}
	return crypto.PubkeyToAddress(*pub), nil
}
