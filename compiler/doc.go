/*

Process of compilation

Brainfuck Source ->
	parse ->
Instruction Tree (ir) ->
	optimize (7 passes) ->
Optimized Instruction Tree (ir) ->
	flatten ->
Flat Ops, jumps resolved (exec) ->
	run

or, for the transpiler:

Optimized Instruction Tree (ir) ->
	emit ->
Go Source

*/
package compiler
