package asc

// TypeID is the discriminant AssemblyScript's `idof<T>()` resolves to for a
// concrete class, encoded into the rt_id field of the 20-byte object header.
// The numbering is a closed, explicit table rather than an iota-only enum:
// guest modules compiled against a real `graph-ts`-style runtime depend on
// the discriminants being stable across host implementations, so renumbering
// or reordering this list would silently break every compiled guest module.
//
// Only the chain-agnostic core and the Ethereum-shaped reserved range are
// implemented; the upstream discriminant table also reserves ranges for
// other chains (NEAR, Cosmos, Arweave, StarkNet) that this runtime's
// datasources never target, so those ranges are omitted rather than carried
// as dead constants.
type TypeID uint32

const (
	TypeString                             TypeID = 0
	TypeArrayBuffer                        TypeID = 1
	TypeInt8Array                          TypeID = 2
	TypeInt16Array                         TypeID = 3
	TypeInt32Array                         TypeID = 4
	TypeInt64Array                         TypeID = 5
	TypeUint8Array                         TypeID = 6
	TypeUint16Array                        TypeID = 7
	TypeUint32Array                        TypeID = 8
	TypeUint64Array                        TypeID = 9
	TypeFloat32Array                       TypeID = 10
	TypeFloat64Array                       TypeID = 11
	TypeBigDecimal                         TypeID = 12
	TypeArrayBool                          TypeID = 13
	TypeArrayUint8Array                    TypeID = 14
	TypeArrayEthereumValue                 TypeID = 15
	TypeArrayStoreValue                    TypeID = 16
	TypeArrayJSONValue                     TypeID = 17
	TypeArrayString                        TypeID = 18
	TypeArrayEventParam                    TypeID = 19
	TypeArrayTypedMapEntryStringJSONValue  TypeID = 20
	TypeArrayTypedMapEntryStringStoreValue TypeID = 21
	TypeSmartContractCall                  TypeID = 22
	TypeEventParam                         TypeID = 23
	TypeEthereumTransaction                TypeID = 24
	TypeEthereumBlock                      TypeID = 25
	TypeEthereumCall                       TypeID = 26
	TypeWrappedTypedMapStringJSONValue     TypeID = 27
	TypeWrappedBool                        TypeID = 28
	TypeWrappedJSONValue                   TypeID = 29
	TypeEthereumValue                      TypeID = 30
	TypeStoreValue                         TypeID = 31
	TypeJSONValue                          TypeID = 32
	TypeEthereumEvent                      TypeID = 33
	TypeTypedMapEntryStringStoreValue      TypeID = 34
	TypeTypedMapEntryStringJSONValue       TypeID = 35
	TypeTypedMapStringStoreValue           TypeID = 36
	TypeTypedMapStringJSONValue            TypeID = 37
	TypeTypedMapStringTypedMapStringJSON   TypeID = 38
	TypeResultTypedMapStringJSONValueBool  TypeID = 39
	TypeResultJSONValueBool                TypeID = 40
	TypeArrayU8                            TypeID = 41
	TypeArrayU16                           TypeID = 42
	TypeArrayU32                           TypeID = 43
	TypeArrayU64                           TypeID = 44
	TypeArrayI8                            TypeID = 45
	TypeArrayI16                           TypeID = 46
	TypeArrayI32                           TypeID = 47
	TypeArrayI64                           TypeID = 48
	TypeArrayF32                           TypeID = 49
	TypeArrayF64                           TypeID = 50
	TypeArrayBigDecimal                    TypeID = 51

	// Reserved Ethereum discriminant extension range [1000, 1499).
	TypeTransactionReceipt        TypeID = 1000
	TypeLog                       TypeID = 1001
	TypeArrayH256                 TypeID = 1002
	TypeArrayLog                  TypeID = 1003
	TypeArrayTypedMapStringStore  TypeID = 1004
	TypeArrayEthereumTransaction  TypeID = 1005
)
