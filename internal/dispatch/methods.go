package dispatch

import "github.com/atlas-lang/atlas/internal/ast"

// init populates the method-dispatch table's representative entries: the
// spec names these as the category of method Atlas supports (§3.4,
// §8.2's "mutating stdlib method" property) without enumerating a full
// standard library, so this is the representative slice a complete
// implementation wires up, following the same one-insertion-per-entry
// discipline as the teacher's opcode catalogue init().
func init() {
	RegisterMethod(ast.TagArray, "push", "array_push", true)
	RegisterMethod(ast.TagArray, "pop", "array_pop", true)
	RegisterMethod(ast.TagArray, "set", "array_set", true)
	RegisterMethod(ast.TagArray, "remove", "array_remove", true)
	RegisterMethod(ast.TagArray, "len", "array_len", false)
	RegisterMethod(ast.TagArray, "get", "array_get", false)
	RegisterMethod(ast.TagArray, "map", "array_map", false)
	RegisterMethod(ast.TagArray, "filter", "array_filter", false)
	RegisterMethod(ast.TagArray, "sort", "array_sort", true)

	RegisterMethod(ast.TagString, "len", "string_len", false)
	RegisterMethod(ast.TagString, "toUpper", "string_to_upper", false)
	RegisterMethod(ast.TagString, "toLower", "string_to_lower", false)
	RegisterMethod(ast.TagString, "split", "string_split", false)

	RegisterMethod(ast.TagHashMap, "get", "hashmap_get", false)
	RegisterMethod(ast.TagHashMap, "set", "hashmap_set", true)
	RegisterMethod(ast.TagHashMap, "remove", "hashmap_remove", true)
	RegisterMethod(ast.TagHashMap, "len", "hashmap_len", false)
	RegisterMethod(ast.TagHashMap, "keys", "hashmap_keys", false)

	RegisterMethod(ast.TagHashSet, "add", "hashset_add", true)
	RegisterMethod(ast.TagHashSet, "remove", "hashset_remove", true)
	RegisterMethod(ast.TagHashSet, "contains", "hashset_contains", false)
	RegisterMethod(ast.TagHashSet, "len", "hashset_len", false)

	RegisterMethod(ast.TagQueue, "enqueue", "queue_enqueue", true)
	RegisterMethod(ast.TagQueue, "dequeue", "queue_dequeue", true)
	RegisterMethod(ast.TagQueue, "peek", "queue_peek", false)
	RegisterMethod(ast.TagQueue, "len", "queue_len", false)

	RegisterMethod(ast.TagStack, "push", "stack_push", true)
	RegisterMethod(ast.TagStack, "pop", "stack_pop", true)
	RegisterMethod(ast.TagStack, "peek", "stack_peek", false)
	RegisterMethod(ast.TagStack, "len", "stack_len", false)

	RegisterMethod(ast.TagJson, "get", "json_get", false)
	RegisterMethod(ast.TagJson, "set", "json_set", true)

	RegisterMethod(ast.TagShared, "get", "shared_get", false)
	RegisterMethod(ast.TagShared, "set", "shared_set", false)
}
