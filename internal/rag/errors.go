package rag

import "errors"

var errScoreCount = errors.New("scorer returned a score count different from the chunk count")
