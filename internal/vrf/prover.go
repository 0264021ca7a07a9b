package vrf

import (
	"encoding/binary"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"go.dedis.ch/kyber/v3"
	"go.dedis.ch/kyber/v3/pairing"
	"go.dedis.ch/kyber/v3/sign/bls"
	"go.dedis.ch/kyber/v3/util/random"

	"github.com/osse101/lotto/internal/domain"
)

// Proof binds a set of random words to a request seed. Anyone holding the
// public key can check that the words were not chosen by the oracle.
type Proof struct {
	Seed      []byte `json:"seed"`
	Signature []byte `json:"signature"`
}

// Prover derives random words from BLS signatures over the bn256 pairing.
// BLS signatures are unique per (key, message), so the output for a seed is
// fixed once the key is.
type Prover struct {
	suite  *pairing.SuiteBn256
	secret kyber.Scalar
	public kyber.Point
}

// NewProver creates a prover with a fresh key pair
func NewProver() *Prover {
	suite := pairing.NewSuiteBn256()
	secret, public := bls.NewKeyPair(suite, random.New())
	return &Prover{suite: suite, secret: secret, public: public}
}

// PublicKey returns the marshalled verification key
func (p *Prover) PublicKey() ([]byte, error) {
	return p.public.MarshalBinary()
}

// Prove signs seed
func (p *Prover) Prove(seed []byte) (*Proof, error) {
	sig, err := bls.Sign(p.suite, p.secret, seed)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgSignFailed, err)
	}
	return &Proof{Seed: seed, Signature: sig}, nil
}

// Verify checks proof against the prover's public key
func (p *Prover) Verify(proof *Proof) error {
	if err := bls.Verify(p.suite, p.public, proof.Seed, proof.Signature); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidProof, err)
	}
	return nil
}

// RequestSeed is the message signed for a request. It commits to the request
// id, the requesting consumer and the coordinator's pre-seed.
func RequestSeed(requestID domain.RequestID, consumer common.Address, preSeed []byte) []byte {
	var id [8]byte
	binary.BigEndian.PutUint64(id[:], uint64(requestID))
	return crypto.Keccak256(id[:], consumer.Bytes(), preSeed)
}

// WordsFromProof expands a proof into n uint256 words:
// word_i = keccak256(signature || uint256(i))
func WordsFromProof(proof *Proof, n uint32) []*big.Int {
	words := make([]*big.Int, n)
	for i := uint32(0); i < n; i++ {
		idx := common.BigToHash(new(big.Int).SetUint64(uint64(i)))
		words[i] = new(big.Int).SetBytes(crypto.Keccak256(proof.Signature, idx.Bytes()))
	}
	return words
}
