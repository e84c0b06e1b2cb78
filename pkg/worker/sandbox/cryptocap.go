/*
Copyright 2026 The Actias Authors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package sandbox

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/sha512"
	"crypto/subtle"
	"crypto/x509"
	"encoding/hex"
	"encoding/pem"

	lua "github.com/yuin/gopher-lua"
	"golang.org/x/crypto/argon2"
)

const (
	rsaPrivateKeyTypeName = "RsaPrivateKey"
	rsaPublicKeyTypeName  = "RsaPublicKey"
)

// Argon2 defaults; a re-implementation may make these configurable but
// spec.md only names the facade (`Argon2.new(kind)`).
const (
	argon2Time    = 1
	argon2Memory  = 64 * 1024
	argon2Threads = 4
	argon2KeyLen  = 32
	argon2SaltLen = 16
)

// newCryptoCapability implements the crypto capability (spec.md §4.2):
// Argon2, the sha2 family, and RSA key handling.
func newCryptoCapability(sb *Sandbox) lua.LValue {
	L := sb.L
	registerRsaPrivateKeyType(L)
	registerRsaPublicKeyType(L)

	t := L.NewTable()

	argon2Module := L.NewTable()
	argon2Module.RawSetString("new", newFunc(L, luaArgon2New))
	t.RawSetString("Argon2", argon2Module)

	for name, fn := range map[string]func([]byte) []byte{
		"sha224":     func(b []byte) []byte { s := sha256.Sum224(b); return s[:] },
		"sha256":     func(b []byte) []byte { s := sha256.Sum256(b); return s[:] },
		"sha384":     func(b []byte) []byte { s := sha512.Sum384(b); return s[:] },
		"sha512":     func(b []byte) []byte { s := sha512.Sum512(b); return s[:] },
		"sha512_224": func(b []byte) []byte { s := sha512.Sum512_224(b); return s[:] },
		"sha512_256": func(b []byte) []byte { s := sha512.Sum512_256(b); return s[:] },
	} {
		hashFn := fn
		t.RawSetString(name, newFunc(L, func(L *lua.LState) int {
			input := L.CheckString(1)
			sum := hashFn([]byte(input))
			L.Push(lua.LString(hex.EncodeToString(sum)))
			return 1
		}))
	}

	rsaPrivate := L.NewTable()
	rsaPrivate.RawSetString("new", newFunc(L, luaRsaPrivateKeyNew))
	rsaPrivate.RawSetString("from_pem", newFunc(L, luaRsaPrivateKeyFromPEM))
	t.RawSetString("RsaPrivateKey", rsaPrivate)

	return t
}

// luaArgon2New implements Argon2.new(kind) -> {hash(password[, salt]),
// verify(password, encoded)}. kind is "i" or "id" (default "id").
func luaArgon2New(L *lua.LState) int {
	kind := "id"
	if L.GetTop() >= 1 {
		kind = L.CheckString(1)
	}

	inst := L.NewTable()
	inst.RawSetString("kind", lua.LString(kind))
	inst.RawSetString("hash", newFunc(L, func(L *lua.LState) int {
		self := L.CheckTable(1)
		password := []byte(L.CheckString(2))

		var salt []byte
		if L.GetTop() >= 3 {
			salt = []byte(L.CheckString(3))
		} else {
			salt = make([]byte, argon2SaltLen)
			if _, err := rand.Read(salt); err != nil {
				L.RaiseError("Argon2.hash: %s", err.Error())
				return 0
			}
		}

		sum := argon2Sum(luaFieldString(self, "kind"), password, salt)
		encoded := hex.EncodeToString(salt) + ":" + hex.EncodeToString(sum)
		L.Push(lua.LString(encoded))
		return 1
	}))
	inst.RawSetString("verify", newFunc(L, func(L *lua.LState) int {
		self := L.CheckTable(1)
		password := []byte(L.CheckString(2))
		encoded := L.CheckString(3)

		saltHex, sumHex, ok := splitArgon2Encoded(encoded)
		if !ok {
			L.Push(lua.LBool(false))
			return 1
		}
		salt, err1 := hex.DecodeString(saltHex)
		want, err2 := hex.DecodeString(sumHex)
		if err1 != nil || err2 != nil {
			L.Push(lua.LBool(false))
			return 1
		}

		got := argon2Sum(luaFieldString(self, "kind"), password, salt)
		L.Push(lua.LBool(subtle.ConstantTimeCompare(got, want) == 1))
		return 1
	}))
	L.Push(inst)
	return 1
}

func splitArgon2Encoded(s string) (salt, sum string, ok bool) {
	for i := 0; i < len(s); i++ {
		if s[i] == ':' {
			return s[:i], s[i+1:], true
		}
	}
	return "", "", false
}

func argon2Sum(kind string, password, salt []byte) []byte {
	if kind == "i" {
		return argon2.Key(password, salt, argon2Time, argon2Memory, argon2Threads, argon2KeyLen)
	}
	return argon2.IDKey(password, salt, argon2Time, argon2Memory, argon2Threads, argon2KeyLen)
}

func registerRsaPrivateKeyType(L *lua.LState) {
	mt := L.NewTypeMetatable(rsaPrivateKeyTypeName)
	L.SetField(mt, "__index", L.SetFuncs(L.NewTable(), map[string]lua.LGFunction{
		"to_pem":     guard(luaRsaPrivateToPEM),
		"public_key": guard(luaRsaPrivatePublicKey),
		"decrypt":    guard(luaRsaDecrypt),
	}))
}

func registerRsaPublicKeyType(L *lua.LState) {
	mt := L.NewTypeMetatable(rsaPublicKeyTypeName)
	L.SetField(mt, "__index", L.SetFuncs(L.NewTable(), map[string]lua.LGFunction{
		"to_pem":  guard(luaRsaPublicToPEM),
		"encrypt": guard(luaRsaEncrypt),
	}))
}

func newRsaPrivateUserData(L *lua.LState, key *rsa.PrivateKey) *lua.LUserData {
	ud := L.NewUserData()
	ud.Value = key
	ud.Metatable = L.GetTypeMetatable(rsaPrivateKeyTypeName)
	return ud
}

func newRsaPublicUserData(L *lua.LState, key *rsa.PublicKey) *lua.LUserData {
	ud := L.NewUserData()
	ud.Value = key
	ud.Metatable = L.GetTypeMetatable(rsaPublicKeyTypeName)
	return ud
}

func checkRsaPrivateKey(L *lua.LState, n int) *rsa.PrivateKey {
	ud := L.CheckUserData(n)
	if key, ok := ud.Value.(*rsa.PrivateKey); ok {
		return key
	}
	L.ArgError(n, "RsaPrivateKey expected")
	return nil
}

func checkRsaPublicKey(L *lua.LState, n int) *rsa.PublicKey {
	ud := L.CheckUserData(n)
	if key, ok := ud.Value.(*rsa.PublicKey); ok {
		return key
	}
	L.ArgError(n, "RsaPublicKey expected")
	return nil
}

func luaRsaPrivateKeyNew(L *lua.LState) int {
	bits := L.CheckInt(1)
	if bits <= 0 || bits > 4096 {
		L.RaiseError("RsaPrivateKey.new: bits must be in (0, 4096]")
		return 0
	}
	key, err := rsa.GenerateKey(rand.Reader, bits)
	if err != nil {
		L.RaiseError("RsaPrivateKey.new: %s", err.Error())
		return 0
	}
	L.Push(newRsaPrivateUserData(L, key))
	return 1
}

func luaRsaPrivateKeyFromPEM(L *lua.LState) int {
	pemStr := L.CheckString(1)
	format := "PKCS8"
	if L.GetTop() >= 2 {
		format = L.CheckString(2)
	}

	block, _ := pem.Decode([]byte(pemStr))
	if block == nil {
		L.RaiseError("RsaPrivateKey.from_pem: invalid PEM")
		return 0
	}

	var key *rsa.PrivateKey
	var err error
	switch format {
	case "PKCS1":
		key, err = x509.ParsePKCS1PrivateKey(block.Bytes)
	case "PKCS8":
		var parsed any
		parsed, err = x509.ParsePKCS8PrivateKey(block.Bytes)
		if err == nil {
			rsaKey, ok := parsed.(*rsa.PrivateKey)
			if !ok {
				L.RaiseError("RsaPrivateKey.from_pem: not an RSA key")
				return 0
			}
			key = rsaKey
		}
	default:
		L.RaiseError("RsaPrivateKey.from_pem: unknown format %q", format)
		return 0
	}
	if err != nil {
		L.RaiseError("RsaPrivateKey.from_pem: %s", err.Error())
		return 0
	}

	L.Push(newRsaPrivateUserData(L, key))
	return 1
}

func luaRsaPrivateToPEM(L *lua.LState) int {
	key := checkRsaPrivateKey(L, 1)
	format := "PKCS8"
	if L.GetTop() >= 2 {
		format = L.CheckString(2)
	}

	var der []byte
	var blockType string
	var err error
	switch format {
	case "PKCS1":
		der = x509.MarshalPKCS1PrivateKey(key)
		blockType = "RSA PRIVATE KEY"
	case "PKCS8":
		der, err = x509.MarshalPKCS8PrivateKey(key)
		blockType = "PRIVATE KEY"
	default:
		L.RaiseError("RsaPrivateKey.to_pem: unknown format %q", format)
		return 0
	}
	if err != nil {
		L.RaiseError("RsaPrivateKey.to_pem: %s", err.Error())
		return 0
	}

	out := pem.EncodeToMemory(&pem.Block{Type: blockType, Bytes: der})
	L.Push(lua.LString(out))
	return 1
}

func luaRsaPrivatePublicKey(L *lua.LState) int {
	key := checkRsaPrivateKey(L, 1)
	L.Push(newRsaPublicUserData(L, &key.PublicKey))
	return 1
}

func luaRsaDecrypt(L *lua.LState) int {
	key := checkRsaPrivateKey(L, 1)
	ciphertext := []byte(L.CheckString(2))

	plaintext, err := rsa.DecryptOAEP(sha256.New(), rand.Reader, key, ciphertext, nil)
	if err != nil {
		L.RaiseError("RsaPrivateKey.decrypt: %s", err.Error())
		return 0
	}
	L.Push(lua.LString(plaintext))
	return 1
}

func luaRsaPublicToPEM(L *lua.LState) int {
	key := checkRsaPublicKey(L, 1)
	der, err := x509.MarshalPKIXPublicKey(key)
	if err != nil {
		L.RaiseError("RsaPublicKey.to_pem: %s", err.Error())
		return 0
	}
	out := pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der})
	L.Push(lua.LString(out))
	return 1
}

func luaRsaEncrypt(L *lua.LState) int {
	key := checkRsaPublicKey(L, 1)
	plaintext := []byte(L.CheckString(2))

	ciphertext, err := rsa.EncryptOAEP(sha256.New(), rand.Reader, key, plaintext, nil)
	if err != nil {
		L.RaiseError("RsaPublicKey.encrypt: %s", err.Error())
		return 0
	}
	L.Push(lua.LString(ciphertext))
	return 1
}
