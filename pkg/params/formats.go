package params

// FormatCodes returns the Bind-message format code list for the given
// values following the backend convention: nil when every value uses the
// default text format, a single element when all values share one
// format, else one code per value.
//
// https://github.com/postgres/postgres/blob/c65bc2e1d14a2d4daed7c1921ac518f2c5ac3d17/src/backend/tcop/pquery.c#L664-L691
func FormatCodes(vals []Parameter) []int16 {
	if len(vals) == 0 {
		return nil
	}

	uniform := true
	for _, v := range vals {
		if v.FormatCode != vals[0].FormatCode {
			uniform = false
			break
		}
	}

	if uniform {
		if vals[0].FormatCode == FormatCodeText {
			/* default format for all columns */
			return nil
		}
		return []int16{vals[0].FormatCode}
	}

	codes := make([]int16, len(vals))
	for i := range vals {
		codes[i] = vals[i].FormatCode
	}
	return codes
}

// ValuesBytes collects the raw value bytes in bind order.
func ValuesBytes(vals []Parameter) [][]byte {
	if len(vals) == 0 {
		return nil
	}
	bts := make([][]byte, len(vals))
	for i := range vals {
		bts[i] = vals[i].Value
	}
	return bts
}

// OIDs collects the parameter type OIDs in bind order.
func OIDs(vals []Parameter) []uint32 {
	if len(vals) == 0 {
		return nil
	}
	oids := make([]uint32, len(vals))
	for i := range vals {
		oids[i] = vals[i].OID
	}
	return oids
}
