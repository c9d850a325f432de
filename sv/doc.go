/*

Process of translation

SystemVerilog Text ->
	parse ->
Syntax Tree (ast) ->
	signature pass (all classes) ->
	body pass (all classes) ->
Restricted IR (ir) ->
	downstream verification-modeling toolchain

Only two-state value types and class-based declarations are translated.
Everything outside the subset is rejected with a located diagnostic; one run
reports every failure in the unit, not just the first.

*/
package sv
