package kamino

import (
	"crypto/ed25519"

	"github.com/mr-tron/base58"
	"github.com/near/borsh-go"
	"github.com/pkg/errors"
)

// newInstructionData serializes the discriminator followed by the Borsh
// encoding of args. A nil args produces a discriminator-only payload. Args
// must be passed by value, since Borsh encodes pointers as options.
func newInstructionData(instructionType InstructionType, args interface{}) []byte {
	var encoded []byte
	if args != nil {
		var err error
		encoded, err = borsh.Serialize(args)
		if err != nil {
			// Argument structs are fixed within this package
			panic(err)
		}
	}

	var offset int
	data := make([]byte, 8+len(encoded))
	putInstructionType(data, instructionType, &offset)
	copy(data[offset:], encoded)
	return data
}

// decodeInstructionData validates the discriminator and decodes the Borsh
// arguments that follow it into dst.
func decodeInstructionData(data []byte, instructionType InstructionType, dst interface{}) error {
	if GetInstructionType(data) != instructionType {
		return ErrInvalidInstructionData
	}
	if err := borsh.Deserialize(dst, data[8:]); err != nil {
		return errors.Wrap(ErrInvalidInstructionData, err.Error())
	}
	return nil
}

func toKey32(key ed25519.PublicKey) [32]byte {
	var res [32]byte
	copy(res[:], key)
	return res
}

// getOptionalAccountMetaAddress follows the Anchor convention of passing
// the program id in place of an absent optional account.
func getOptionalAccountMetaAddress(account ed25519.PublicKey) ed25519.PublicKey {
	if account == nil {
		return PROGRAM_ID
	}
	return account
}

func mustBase58Decode(value string) []byte {
	decoded, err := base58.Decode(value)
	if err != nil {
		panic(err)
	}
	return decoded
}
