/*
Copyright © 2019 the GLINT2 authors.
This file is part of GLINT2.

GLINT2 is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

GLINT2 is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with GLINT2.  If not, see <http://www.gnu.org/licenses/>.
*/

// Command glint2 is a command-line interface for coupling GCM and ice
// sheet grids.
package main

import (
	"fmt"
	"os"

	"github.com/citibob/glint2/glint2util"
)

func main() {
	if err := glint2util.Root.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(-1)
	}
}
