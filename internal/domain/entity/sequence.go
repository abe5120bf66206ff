package entity

import (
	"fmt"

	"tg_escrow/internal/domain/value"
)

const (
	sequenceFirstNumber = 1000
	sequenceLastNumber  = 9999

	seedLetter = 'A'
	seedNumber = 7342
)

// SequenceCounter — персистентное состояние генератора идентификаторов
// сделок. Единственный на всю систему.
type SequenceCounter struct {
	Letter byte
	Number int
}

func SeedSequenceCounter() SequenceCounter {
	return SequenceCounter{Letter: seedLetter, Number: seedNumber}
}

// DealID возвращает идентификатор для текущего состояния счётчика.
func (c SequenceCounter) DealID() value.DealID {
	return value.DealID(fmt.Sprintf("#%c%d", c.Letter, c.Number))
}

// Advanced возвращает следующее состояние: номер растёт до 9999, затем
// сбрасывается в 1000 со сменой буквы; после 'Z' буква заворачивается на 'A'.
// Проверки коллизий на завороте нет.
func (c SequenceCounter) Advanced() SequenceCounter {
	c.Number++

	if c.Number > sequenceLastNumber {
		c.Number = sequenceFirstNumber
		c.Letter++

		if c.Letter > 'Z' {
			c.Letter = seedLetter
		}
	}

	return c
}

func (c SequenceCounter) Validate() error {
	if c.Letter < 'A' || c.Letter > 'Z' {
		return fmt.Errorf("sequence letter %q out of range", c.Letter)
	}

	if c.Number < sequenceFirstNumber || c.Number > sequenceLastNumber {
		return fmt.Errorf("sequence number %d out of range", c.Number)
	}

	return nil
}
