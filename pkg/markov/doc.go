/*
Package markov provides a generic, in-memory, variable-order Markov chain
model for sequences of discrete symbols.

A Model learns, for every context of up to Order preceding symbols, how often
each symbol followed it and how often a training sequence ended there (the
terminus). Generation walks the model from the empty context, drawing each
next symbol, or the end of the sequence, in proportion to those counts.

Symbols can be any comparable type. Word lists are typically trained one line
at a time as runes with LineTokenizer, and prose one sentence at a time as
words with WordTokenizer.

	model, err := markov.NewModel[rune](3)
	if err != nil {
		return err
	}
	if _, err := model.Train(ctx, file, markov.NewLineTokenizer()); err != nil {
		return err
	}
	word := string(model.GenerateSlice())
*/
package markov
