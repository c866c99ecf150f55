// Package mode defines the closed set of input modes and the rules for
// moving between them.
//
// Exactly one mode is active per page context. The modes are:
//   - Normal: page interaction through normal mode bindings
//   - Insert: a text field has focus; most keys reach the page
//   - Input: like insert, entered explicitly to cycle through inputs
//   - Ignore: keys pass through except the bindings that leave it
//   - Hint: a hint overlay is collecting a hint label
//   - Visual: a selection is being extended
//   - Gobble: the next N characters are collected as a command argument
//   - NMode: the next N commands run in another mode, then a final command
//
// Gobble and NMode are transient: they carry parameters and end on their
// own once their count is consumed or Escape is pressed.
//
// # Transitions
//
// A mode changes only through:
//  1. AutoSwitch, when focus enters or leaves an editable element
//  2. an explicit mode command
//  3. completion of a transient mode
//
// Mode values are immutable; every transition returns a new Mode.
package mode
