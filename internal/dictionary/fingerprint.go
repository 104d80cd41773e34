// Copyright 2024-2025 CardinalHQ, Inc
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package dictionary

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"

	"github.com/cespare/xxhash/v2"
)

// Fingerprint identifies the content of a dictionary file.
type Fingerprint string

// Fingerprinter computes a Fingerprint from raw file bytes.
type Fingerprinter func(b []byte) Fingerprint

const (
	FingerprintSHA256 = "sha256"
	FingerprintXXHash = "xxhash"
)

func SHA256Fingerprint(b []byte) Fingerprint {
	sum := sha256.Sum256(b)
	return Fingerprint(FingerprintSHA256 + ":" + hex.EncodeToString(sum[:]))
}

func XXHashFingerprint(b []byte) Fingerprint {
	return Fingerprint(FingerprintXXHash + ":" + strconv.FormatUint(xxhash.Sum64(b), 16))
}

// FingerprinterFor maps a configured algorithm name to its Fingerprinter.
// An empty name selects sha256.
func FingerprinterFor(name string) (Fingerprinter, error) {
	switch name {
	case "", FingerprintSHA256:
		return SHA256Fingerprint, nil
	case FingerprintXXHash:
		return XXHashFingerprint, nil
	default:
		return nil, fmt.Errorf("unknown fingerprint algorithm %q", name)
	}
}
