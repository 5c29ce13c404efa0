// Package txcompiler turns a {payer, blockhash, instructions, signers}
// bundle into Solana's canonical signed wire bytes, and parses those bytes
// back.
package txcompiler

import (
	"fmt"
	"sort"

	"github.com/mr-tron/base58"

	"github.com/solforge/svmsdk/internal/compactarray"
	"github.com/solforge/svmsdk/internal/config"
	"github.com/solforge/svmsdk/internal/instruction"
	"github.com/solforge/svmsdk/internal/solkey"
)

// Transaction is the pre-encoding, caller-facing transaction shape.
type Transaction struct {
	Payer        solkey.Key
	Blockhash    [32]byte
	Instructions []instruction.Instruction
	Signers      []solkey.Keypair
}

// Header is the 3-byte message header.
type Header struct {
	NumRequiredSignatures      byte
	NumReadonlySignedAccounts  byte
	NumReadonlyUnsignedAccount byte
}

// Extras carries the parts of a parsed transaction that do not fit the
// caller-facing Transaction shape: the raw header, the full account
// table (with privilege flags), and the signatures.
type Extras struct {
	Header      Header
	AccountKeys []solkey.Key
	Signers     int // count of keys flagged signer (== len(Signatures))
	Signatures  []solkey.Signature
}

// accountEntry is one occurrence of a key in the flattened, pre-sort
// account list.
type accountEntry struct {
	key      solkey.Key
	isSigner bool
	isWriter bool
}

// rank implements the four-way partition order signer+writable (0),
// signer+readonly (1), nonsigner+writable (2), nonsigner+readonly (3).
func (e accountEntry) rank() int {
	switch {
	case e.isSigner && e.isWriter:
		return 0
	case e.isSigner && !e.isWriter:
		return 1
	case !e.isSigner && e.isWriter:
		return 2
	default:
		return 3
	}
}

// ToBytes runs the full compile-and-sign pipeline of §4.3, producing the
// canonical wire bytes for tx.
func ToBytes(tx Transaction) ([]byte, error) {
	if err := precheck(tx); err != nil {
		return nil, err
	}

	table, err := compileAccountTable(tx)
	if err != nil {
		return nil, err
	}

	if err := checkSigners(table, tx.Signers); err != nil {
		return nil, err
	}

	header := computeHeader(table)

	message, err := encodeMessage(header, table, tx.Blockhash, tx.Instructions)
	if err != nil {
		return nil, err
	}

	signatures, err := sign(table, tx.Signers, message)
	if err != nil {
		return nil, err
	}

	sigBytes := make([][]byte, len(signatures))
	for i, sig := range signatures {
		s := sig
		sigBytes[i] = s[:]
	}

	out, err := compactarray.EncodeArray(nil, sigBytes)
	if err != nil {
		return nil, err
	}
	return append(out, message...), nil
}

func precheck(tx Transaction) error {
	if tx.Payer.IsZero() {
		return fmt.Errorf("%w", config.ErrNoPayer)
	}
	if tx.Blockhash == ([32]byte{}) {
		return fmt.Errorf("%w", config.ErrNoBlockhash)
	}
	if len(tx.Instructions) == 0 {
		return fmt.Errorf("%w", config.ErrNoInstructions)
	}
	for i, ix := range tx.Instructions {
		if ix.ProgramID.IsZero() {
			return fmt.Errorf("%w: instruction %d", config.ErrNoProgram, i)
		}
	}
	return nil
}

// compileAccountTable implements §4.3 step 2: flatten, remove payer
// entries, stable-sort by (signer DESC, writable DESC), de-duplicate
// keeping first occurrence, prepend the payer. The stable sort is a
// literal ordering-preserving stable sort — ties are broken by original
// flatten order, never by key bytes.
func compileAccountTable(tx Transaction) ([]accountEntry, error) {
	var flattened []accountEntry

	for _, ix := range tx.Instructions {
		flattened = append(flattened, accountEntry{key: ix.ProgramID, isSigner: false, isWriter: false})
		for _, acc := range ix.Accounts {
			flattened = append(flattened, accountEntry{key: acc.PubKey, isSigner: acc.IsSigner, isWriter: acc.IsWriter})
		}
	}

	filtered := flattened[:0:0]
	for _, e := range flattened {
		if e.key == tx.Payer {
			continue
		}
		filtered = append(filtered, e)
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].rank() < filtered[j].rank()
	})

	seen := make(map[solkey.Key]bool, len(filtered)+1)
	table := make([]accountEntry, 0, len(filtered)+1)
	table = append(table, accountEntry{key: tx.Payer, isSigner: true, isWriter: true})
	seen[tx.Payer] = true

	for _, e := range filtered {
		if seen[e.key] {
			continue
		}
		seen[e.key] = true
		table = append(table, e)
	}

	return table, nil
}

func checkSigners(table []accountEntry, signers []solkey.Keypair) error {
	tableSigners := make(map[solkey.Key]bool)
	for _, e := range table {
		if e.isSigner {
			tableSigners[e.key] = true
		}
	}

	providedSigners := make(map[solkey.Key]bool, len(signers))
	for _, kp := range signers {
		providedSigners[kp.Public] = true
	}

	if len(tableSigners) != len(providedSigners) {
		return fmt.Errorf("%w", config.ErrMismatchedSigners)
	}
	for k := range tableSigners {
		if !providedSigners[k] {
			return fmt.Errorf("%w", config.ErrMismatchedSigners)
		}
	}
	return nil
}

func computeHeader(table []accountEntry) Header {
	var h Header
	for _, e := range table {
		if e.isSigner {
			h.NumRequiredSignatures++
			if !e.isWriter {
				h.NumReadonlySignedAccounts++
			}
		} else if !e.isWriter {
			h.NumReadonlyUnsignedAccount++
		}
	}
	return h
}

func encodeMessage(header Header, table []accountEntry, blockhash [32]byte, instructions []instruction.Instruction) ([]byte, error) {
	keyIndex := make(map[solkey.Key]int, len(table))
	keyItems := make([][]byte, len(table))
	for i, e := range table {
		keyIndex[e.key] = i
		k := e.key
		keyItems[i] = k[:]
	}

	out := []byte{header.NumRequiredSignatures, header.NumReadonlySignedAccounts, header.NumReadonlyUnsignedAccount}

	out, err := compactarray.EncodeArray(out, keyItems)
	if err != nil {
		return nil, err
	}

	out = append(out, blockhash[:]...)

	encodedInstructions := make([][]byte, len(instructions))
	for i, ix := range instructions {
		programIdx, ok := keyIndex[ix.ProgramID]
		if !ok {
			return nil, fmt.Errorf("%w: program id missing from account table", config.ErrParse)
		}

		accountIndices := make([][]byte, len(ix.Accounts))
		for j, acc := range ix.Accounts {
			idx, ok := keyIndex[acc.PubKey]
			if !ok {
				return nil, fmt.Errorf("%w: account missing from account table", config.ErrParse)
			}
			accountIndices[j] = []byte{byte(idx)}
		}

		encoded := []byte{byte(programIdx)}
		encoded, err = compactarray.EncodeArray(encoded, accountIndices)
		if err != nil {
			return nil, err
		}
		encoded, err = compactarray.EncodeBytes(encoded, ix.Data)
		if err != nil {
			return nil, err
		}
		encodedInstructions[i] = encoded
	}

	out, err = compactarray.EncodeArray(out, encodedInstructions)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// sign produces one ed25519 signature per signer, ordered by the
// signer's index in the account table (payer first).
func sign(table []accountEntry, signers []solkey.Keypair, message []byte) ([]solkey.Signature, error) {
	byKey := make(map[solkey.Key]solkey.Keypair, len(signers))
	for _, kp := range signers {
		byKey[kp.Public] = kp
	}

	type indexed struct {
		idx int
		kp  solkey.Keypair
	}
	var ordered []indexed
	for i, e := range table {
		if !e.isSigner {
			continue
		}
		kp, ok := byKey[e.key]
		if !ok {
			return nil, fmt.Errorf("%w: no keypair supplied for signer %s", config.ErrMismatchedSigners, e.key.ToBase58())
		}
		ordered = append(ordered, indexed{idx: i, kp: kp})
	}

	sort.Slice(ordered, func(i, j int) bool { return ordered[i].idx < ordered[j].idx })

	sigs := make([]solkey.Signature, len(ordered))
	for i, o := range ordered {
		sigs[i] = o.kp.Sign(message)
	}
	return sigs, nil
}

// Parse inverts ToBytes, yielding the reconstructed transaction shape
// plus Extras. Any malformed input surfaces as a single wrapped
// config.ErrParse; no partial parse is observable.
func Parse(b []byte) (Transaction, Extras, error) {
	sigItems, consumed, err := compactarray.DecodeArray(b, solkey.SignatureSize)
	if err != nil {
		return Transaction{}, Extras{}, fmt.Errorf("%w: signatures: %v", config.ErrParse, err)
	}
	signatures := make([]solkey.Signature, len(sigItems))
	for i, item := range sigItems {
		var sig solkey.Signature
		copy(sig[:], item)
		signatures[i] = sig
	}

	rest := b[consumed:]
	if len(rest) < 3 {
		return Transaction{}, Extras{}, fmt.Errorf("%w: truncated header", config.ErrParse)
	}
	header := Header{
		NumRequiredSignatures:      rest[0],
		NumReadonlySignedAccounts:  rest[1],
		NumReadonlyUnsignedAccount: rest[2],
	}
	rest = rest[3:]

	keyItems, n, err := compactarray.DecodeArray(rest, solkey.KeySize)
	if err != nil {
		return Transaction{}, Extras{}, fmt.Errorf("%w: account keys: %v", config.ErrParse, err)
	}
	rest = rest[n:]

	accountKeys := make([]solkey.Key, len(keyItems))
	for i, item := range keyItems {
		var k solkey.Key
		copy(k[:], item)
		accountKeys[i] = k
	}

	if len(rest) < 32 {
		return Transaction{}, Extras{}, fmt.Errorf("%w: truncated blockhash", config.ErrParse)
	}
	var blockhash [32]byte
	copy(blockhash[:], rest[:32])
	rest = rest[32:]

	ixItems, n, err := decodeInstructionList(rest)
	if err != nil {
		return Transaction{}, Extras{}, err
	}
	_ = n

	if int(header.NumRequiredSignatures) != len(signatures) {
		return Transaction{}, Extras{}, fmt.Errorf("%w: header signer count %d does not match %d signatures", config.ErrParse, header.NumRequiredSignatures, len(signatures))
	}
	if len(accountKeys) == 0 {
		return Transaction{}, Extras{}, fmt.Errorf("%w: empty account table", config.ErrParse)
	}

	numSigners := int(header.NumRequiredSignatures)
	numReadonlySigners := int(header.NumReadonlySignedAccounts)
	numReadonlyNonSigners := int(header.NumReadonlyUnsignedAccount)
	numWritableSigners := numSigners - numReadonlySigners
	numNonSigners := len(accountKeys) - numSigners
	numWritableNonSigners := numNonSigners - numReadonlyNonSigners

	if numWritableSigners < 0 || numWritableNonSigners < 0 {
		return Transaction{}, Extras{}, fmt.Errorf("%w: inconsistent header counts", config.ErrParse)
	}

	flagsFor := func(idx int) (signer, writer bool) {
		switch {
		case idx < numWritableSigners:
			return true, true
		case idx < numSigners:
			return true, false
		case idx < numSigners+numWritableNonSigners:
			return false, true
		default:
			return false, false
		}
	}

	instructions := make([]instruction.Instruction, len(ixItems))
	for i, parsed := range ixItems {
		if parsed.programIndex >= len(accountKeys) {
			return Transaction{}, Extras{}, fmt.Errorf("%w: instruction %d program index out of range", config.ErrParse, i)
		}
		accounts := make([]instruction.AccountMeta, len(parsed.accountIndices))
		for j, idx := range parsed.accountIndices {
			if idx >= len(accountKeys) {
				return Transaction{}, Extras{}, fmt.Errorf("%w: instruction %d account index out of range", config.ErrParse, i)
			}
			signer, writer := flagsFor(idx)
			accounts[j] = instruction.AccountMeta{PubKey: accountKeys[idx], IsSigner: signer, IsWriter: writer}
		}
		data := parsed.data
		if data == nil {
			data = []byte{}
		}
		instructions[i] = instruction.Instruction{
			ProgramID: accountKeys[parsed.programIndex],
			Accounts:  accounts,
			Data:      data,
		}
	}

	tx := Transaction{
		Payer:        accountKeys[0],
		Blockhash:    blockhash,
		Instructions: instructions,
	}
	extras := Extras{
		Header:      header,
		AccountKeys: accountKeys,
		Signers:     numSigners,
		Signatures:  signatures,
	}
	return tx, extras, nil
}

type parsedInstruction struct {
	programIndex   int
	accountIndices []int
	data           []byte
}

func decodeInstructionList(b []byte) ([]parsedInstruction, int, error) {
	count, consumed, err := compactarray.DecodeU16(b)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: instruction count: %v", config.ErrParse, err)
	}

	out := make([]parsedInstruction, 0, count)
	for i := 0; i < count; i++ {
		if consumed >= len(b) {
			return nil, 0, fmt.Errorf("%w: truncated instruction %d", config.ErrParse, i)
		}
		programIndex := int(b[consumed])
		consumed++

		idxItems, n, err := compactarray.DecodeArray(b[consumed:], 1)
		if err != nil {
			return nil, 0, fmt.Errorf("%w: instruction %d account indices: %v", config.ErrParse, i, err)
		}
		consumed += n

		accountIndices := make([]int, len(idxItems))
		for j, item := range idxItems {
			accountIndices[j] = int(item[0])
		}

		data, n, err := compactarray.DecodeBytes(b[consumed:])
		if err != nil {
			return nil, 0, fmt.Errorf("%w: instruction %d data: %v", config.ErrParse, i, err)
		}
		consumed += n

		out = append(out, parsedInstruction{programIndex: programIndex, accountIndices: accountIndices, data: data})
	}
	return out, consumed, nil
}

// DecodeBase58 base58-decodes a full transaction (signatures + message)
// and parses it.
func DecodeBase58(s string) (Transaction, Extras, error) {
	raw, err := base58.Decode(s)
	if err != nil {
		return Transaction{}, Extras{}, fmt.Errorf("%w: invalid base58: %v", config.ErrParse, err)
	}
	return Parse(raw)
}
