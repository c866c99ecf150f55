// Package dispatcher turns command strings into typed calls.
//
// A command string has the form
//
//	[namespace.]name arg1 arg2 ...
//
// The dispatcher resolves it in these steps:
//
//  1. Aliases are expanded on the head word, recursively.
//  2. The head is split from the arguments on the first whitespace run,
//     and split into a namespace and a name on its first ".". The empty
//     namespace is the ex namespace; "ex." names it explicitly.
//  3. The metadata entry is looked up in the Program. A miss is an
//     *UnknownCommandError.
//  4. The arguments are tokenized with shell-like quoting (see Tokenize).
//  5. Tokens are coerced to the parameter descriptors (see Coerce). A
//     failure is an *ArgumentConversionError and nothing is invoked.
//  6. Pre-dispatch hooks run, then the call is delivered once through the
//     transport routed for its namespace, then post-dispatch hooks run.
//
// # Transports
//
// Namespaces without a registered transport are delivered to the
// dispatcher's Registry in-process. Other namespaces can be routed to a
// separate script context such as transport.Lua. A delivery failure is a
// *DispatchTransportError and is not retried.
//
// # Builtins
//
// Two commands are handled by the dispatcher itself:
//
//	composite scrollline 5; hint.pipe a | tabopen
//	repeat 3 scrollline 10
//
// composite runs ";"-separated pipelines; within a "|" pipeline each
// command receives the previous result as its last argument. repeat runs a
// command n times, or the last non-repeat command if none is given.
// Builtins returns their metadata for the program table.
//
// # Interpret
//
// Interpret is the top-level boundary for user-facing surfaces. It never
// panics and reports every error as a message.
package dispatcher
