// Copyright (c) 2026, The Spatial Navigation Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package domtree

import "fmt"

func sprintPointer(n any) string {
	return fmt.Sprintf("%p", n)
}
